package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"halwaipro/internal/domain"
	"halwaipro/pkg/utils"
)

type CreateSweetInput struct {
	Name          string
	Price         *decimal.Decimal
	Description   string
	Category      string
	ImageURL      string
	StockQuantity *int  // 缺省 0
	IsAvailable   *bool // 缺省 false
}

// SearchQuery 原始查询串，空值表示不过滤
type SearchQuery struct {
	Name     string
	Category string
	MinPrice string
	MaxPrice string
}

// SweetService 库存业务：CRUD + 购买/补货
type SweetService struct {
	sweets domain.SweetRepository
}

func NewSweetService(sweets domain.SweetRepository) *SweetService {
	return &SweetService{sweets: sweets}
}

func validName(name string) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 30 {
		return domain.Validation("Name must be between 3 and 30 characters long")
	}
	return nil
}

func validPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Validation("Price must be at least 0")
	}
	return nil
}

func validStock(q int) error {
	if q < 0 {
		return domain.Validation("Quantity must be at least 0")
	}
	return nil
}

func parseCategory(s string) (domain.Category, error) {
	c := domain.Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", domain.Validation("Invalid category")
	}
	return c, nil
}

func (s *SweetService) CreateSweet(ctx context.Context, in CreateSweetInput) (*domain.Sweet, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	img := strings.TrimSpace(in.ImageURL)
	if name == "" || in.Price == nil || desc == "" || strings.TrimSpace(in.Category) == "" || img == "" {
		return nil, domain.Validation(domain.MsgMissingFields)
	}
	if err := validName(name); err != nil {
		return nil, err
	}
	if err := validPrice(*in.Price); err != nil {
		return nil, err
	}
	cat, err := parseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	sw := &domain.Sweet{
		ID:          utils.NewID(),
		Name:        name,
		Price:       *in.Price,
		Description: desc,
		Category:    cat,
		ImageURL:    img,
	}
	if in.StockQuantity != nil {
		if err := validStock(*in.StockQuantity); err != nil {
			return nil, err
		}
		sw.StockQuantity = *in.StockQuantity
	}
	if in.IsAvailable != nil {
		sw.IsAvailable = *in.IsAvailable
	}
	if err := s.sweets.Create(ctx, sw); err != nil {
		return nil, fmt.Errorf("create sweet: %w", err)
	}
	return sw, nil
}

func (s *SweetService) ListSweets(ctx context.Context) ([]domain.Sweet, error) {
	out, err := s.sweets.FindAll(ctx, domain.SweetFilter{})
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	if out == nil {
		out = []domain.Sweet{}
	}
	return out, nil
}

// ParseSearch 价格区间两端独立可选
func ParseSearch(q SearchQuery) (domain.SweetFilter, error) {
	f := domain.SweetFilter{
		Name:     strings.TrimSpace(q.Name),
		Category: domain.Category(strings.TrimSpace(q.Category)),
	}
	for _, p := range []struct {
		raw string
		dst **decimal.Decimal
	}{{q.MinPrice, &f.MinPrice}, {q.MaxPrice, &f.MaxPrice}} {
		raw := strings.TrimSpace(p.raw)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.SweetFilter{}, domain.Validation("Invalid price filter")
		}
		*p.dst = &d
	}
	return f, nil
}

func (s *SweetService) SearchSweets(ctx context.Context, q SearchQuery) ([]domain.Sweet, error) {
	f, err := ParseSearch(q)
	if err != nil {
		return nil, err
	}
	out, err := s.sweets.FindAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	if out == nil {
		out = []domain.Sweet{}
	}
	return out, nil
}

func (s *SweetService) GetSweet(ctx context.Context, id string) (*domain.Sweet, error) {
	sw, err := s.sweets.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	if sw == nil {
		return nil, domain.NotFound(domain.MsgSweetNotFound)
	}
	return sw, nil
}

func (s *SweetService) UpdateSweet(ctx context.Context, id string, p domain.SweetPatch) (*domain.Sweet, error) {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if err := validName(n); err != nil {
			return nil, err
		}
		p.Name = &n
	}
	if p.Price != nil {
		if err := validPrice(*p.Price); err != nil {
			return nil, err
		}
	}
	if p.Category != nil {
		c, err := parseCategory(string(*p.Category))
		if err != nil {
			return nil, err
		}
		p.Category = &c
	}
	if p.StockQuantity != nil {
		if err := validStock(*p.StockQuantity); err != nil {
			return nil, err
		}
	}
	for _, f := range []**string{&p.Description, &p.ImageURL} {
		if *f == nil {
			continue
		}
		v := strings.TrimSpace(**f)
		if v == "" {
			return nil, domain.Validation(domain.MsgMissingFields)
		}
		*f = &v
	}

	sw, err := s.sweets.Update(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	if sw == nil {
		return nil, domain.NotFound(domain.MsgSweetNotFound)
	}
	return sw, nil
}

func (s *SweetService) DeleteSweet(ctx context.Context, id string) error {
	ok, err := s.sweets.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if !ok {
		return domain.NotFound(domain.MsgSweetNotFound)
	}
	return nil
}

// PurchaseSweet 库存不足时不做任何修改
func (s *SweetService) PurchaseSweet(ctx context.Context, id string, qty int) (*domain.Sweet, error) {
	if qty <= 0 {
		return nil, domain.Validation(domain.MsgInvalidQuantity)
	}
	cur, err := s.GetSweet(ctx, id)
	if err != nil {
		return nil, err
	}
	if qty > cur.StockQuantity {
		return nil, domain.InsufficientStock(domain.MsgInsufficientStock)
	}
	sw, ok, err := s.sweets.DecreaseStock(ctx, id, qty)
	if err != nil {
		return nil, fmt.Errorf("decrease stock: %w", err)
	}
	if !ok {
		// 检查之后被并发请求抢先：重新判定是被删还是库存不够
		if _, err := s.GetSweet(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.InsufficientStock(domain.MsgInsufficientStock)
	}
	unitsPurchased.WithLabelValues(string(sw.Category)).Add(float64(qty))
	return sw, nil
}

func (s *SweetService) RestockSweet(ctx context.Context, id string, qty int) (*domain.Sweet, error) {
	if qty <= 0 {
		return nil, domain.Validation(domain.MsgInvalidQuantity)
	}
	sw, err := s.sweets.IncreaseStock(ctx, id, qty)
	if err != nil {
		return nil, fmt.Errorf("increase stock: %w", err)
	}
	if sw == nil {
		return nil, domain.NotFound(domain.MsgSweetNotFound)
	}
	unitsRestocked.WithLabelValues(string(sw.Category)).Add(float64(qty))
	return sw, nil
}
