package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 价格按 JSON 数字输出（前端直接做算术）
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryMilkBased     Category = "Milk Based"
	CategoryNonMilkBased  Category = "Non-Milk Based"
	CategoryVegetarian    Category = "Vegetarian"
	CategoryNonVegetarian Category = "Non-Vegetarian"
)

var Categories = []Category{
	CategoryMilkBased,
	CategoryNonMilkBased,
	CategoryVegetarian,
	CategoryNonVegetarian,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

type Sweet struct {
	ID            string          `gorm:"primaryKey;size:32" json:"id"`
	Name          string          `gorm:"size:64;not null;index" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Category      Category        `gorm:"size:32;not null;index" json:"category"`
	ImageURL      string          `gorm:"size:512;not null" json:"imageUrl"`
	StockQuantity int             `gorm:"not null;default:0" json:"stockQuantity"`
	IsAvailable   bool            `gorm:"not null;default:false" json:"isAvailable"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Sweet) TableName() string { return "sweets" }

// SweetFilter 为 nil/空 的条件不参与过滤
type SweetFilter struct {
	Name     string
	Category Category
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

func (f SweetFilter) Match(s *Sweet) bool {
	if f.Name != "" && !containsFold(s.Name, f.Name) {
		return false
	}
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// SweetPatch 局部更新，只写非 nil 字段
type SweetPatch struct {
	Name          *string
	Price         *decimal.Decimal
	Description   *string
	Category      *Category
	ImageURL      *string
	StockQuantity *int
	IsAvailable   *bool
}

func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Category == nil &&
		p.ImageURL == nil && p.StockQuantity == nil && p.IsAvailable == nil
}

// Columns 转成 gorm Updates 用的列映射
func (p SweetPatch) Columns() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Price != nil {
		m["price"] = *p.Price
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Category != nil {
		m["category"] = *p.Category
	}
	if p.ImageURL != nil {
		m["image_url"] = *p.ImageURL
	}
	if p.StockQuantity != nil {
		m["stock_quantity"] = *p.StockQuantity
	}
	if p.IsAvailable != nil {
		m["is_available"] = *p.IsAvailable
	}
	return m
}

// Apply 作用到内存对象上（内存仓储使用）
func (p SweetPatch) Apply(s *Sweet) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.ImageURL != nil {
		s.ImageURL = *p.ImageURL
	}
	if p.StockQuantity != nil {
		s.StockQuantity = *p.StockQuantity
	}
	if p.IsAvailable != nil {
		s.IsAvailable = *p.IsAvailable
	}
}

// SweetRepository 查不到时返回 (nil, nil)。
// DecreaseStock 仅在库存足够时扣减，ok=false 表示未命中（不存在或库存不足）。
type SweetRepository interface {
	Create(ctx context.Context, s *Sweet) error
	FindAll(ctx context.Context, f SweetFilter) ([]Sweet, error)
	FindByID(ctx context.Context, id string) (*Sweet, error)
	Update(ctx context.Context, id string, p SweetPatch) (*Sweet, error)
	Delete(ctx context.Context, id string) (bool, error)
	DecreaseStock(ctx context.Context, id string, qty int) (s *Sweet, ok bool, err error)
	IncreaseStock(ctx context.Context, id string, qty int) (*Sweet, error)
}
