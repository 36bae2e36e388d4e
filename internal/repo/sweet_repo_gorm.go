package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"halwaipro/internal/domain"
)

var _ domain.SweetRepository = (*SweetRepo)(nil)

type SweetRepo struct{ db *gorm.DB }

func NewSweetRepo(db *gorm.DB) *SweetRepo { return &SweetRepo{db: db} }

func (r *SweetRepo) Create(ctx context.Context, s *domain.Sweet) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SweetRepo) FindAll(ctx context.Context, f domain.SweetFilter) ([]domain.Sweet, error) {
	q := r.db.WithContext(ctx).Model(&domain.Sweet{})
	if name := strings.TrimSpace(f.Name); name != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(name))+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	sweets := make([]domain.Sweet, 0)
	if err := q.Order("created_at ASC, id ASC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *SweetRepo) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	var s domain.Sweet
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SweetRepo) Update(ctx context.Context, id string, p domain.SweetPatch) (*domain.Sweet, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	if p.Empty() {
		return s, nil
	}
	if err := r.db.WithContext(ctx).Model(s).Updates(p.Columns()).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *SweetRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Sweet{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecreaseStock 条件扣减：库存检查与扣减在同一条 UPDATE 里完成
func (r *SweetRepo) DecreaseStock(ctx context.Context, id string, qty int) (*domain.Sweet, bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Sweet{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return s, s != nil, nil
}

func (r *SweetRepo) IncreaseStock(ctx context.Context, id string, qty int) (*domain.Sweet, error) {
	res := r.db.WithContext(ctx).Model(&domain.Sweet{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}
