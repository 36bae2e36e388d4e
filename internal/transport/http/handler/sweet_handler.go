package handler

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"halwaipro/internal/domain"
	"halwaipro/internal/service"
	httpez "halwaipro/internal/transport/http/ez"
	resp "halwaipro/internal/transport/http/response"
)

// SweetHandler 商品 CRUD + 库存操作
type SweetHandler struct {
	svc *service.SweetService
}

func NewSweetHandler(svc *service.SweetService) *SweetHandler {
	return &SweetHandler{svc: svc}
}

func (h *SweetHandler) Priority() int { return 20 }

type createSweetIn struct {
	Name          string           `json:"name"          binding:"required"`
	Price         *decimal.Decimal `json:"price"         binding:"required"`
	Description   string           `json:"description"   binding:"required"`
	Category      string           `json:"category"      binding:"required,sweetcategory"`
	ImageURL      string           `json:"imageUrl"      binding:"required"`
	StockQuantity *int             `json:"stockQuantity"`
	IsAvailable   *bool            `json:"isAvailable"`
}

type updateSweetIn struct {
	Name          *string          `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category" binding:"omitempty,sweetcategory"`
	ImageURL      *string          `json:"imageUrl"`
	StockQuantity *int             `json:"stockQuantity"`
	IsAvailable   *bool            `json:"isAvailable"`
}

type searchIn struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
}

// quantity 用 float 接收，才能区分 2.5 这类非整数
type quantityIn struct {
	Quantity *float64 `json:"quantity"`
}

func (in quantityIn) value() (int, error) {
	if in.Quantity == nil {
		return 0, domain.Validation(domain.MsgInvalidQuantity)
	}
	q := *in.Quantity
	if q <= 0 || q != math.Trunc(q) || q > math.MaxInt32 {
		return 0, domain.Validation(domain.MsgInvalidQuantity)
	}
	return int(q), nil
}

func (h *SweetHandler) MountAPI(e httpez.EZ) {
	staffOrAdmin := []domain.Role{domain.RoleStaff, domain.RoleAdmin}
	adminOnly := []domain.Role{domain.RoleAdmin}

	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.Sweet]{
		Method: http.MethodGet,
		Path:   "/sweets",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Sweet, error) {
			return h.svc.ListSweets(c.Request.Context())
		},
	})

	httpez.RegisterAction(e, httpez.Action[searchIn, []domain.Sweet]{
		Method: http.MethodGet,
		Path:   "/sweets/search",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *searchIn) ([]domain.Sweet, error) {
			return h.svc.SearchSweets(c.Request.Context(), service.SearchQuery{
				Name:     in.Name,
				Category: in.Category,
				MinPrice: in.MinPrice,
				MaxPrice: in.MaxPrice,
			})
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.Sweet]{
		Method: http.MethodGet,
		Path:   "/sweets/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Sweet, error) {
			return h.svc.GetSweet(c.Request.Context(), c.Param("id"))
		},
	})

	httpez.RegisterAction(e, httpez.Action[createSweetIn, *domain.Sweet]{
		Method: http.MethodPost,
		Path:   "/sweets",
		Binder: httpez.BindJSON,
		Roles:  staffOrAdmin,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createSweetIn) (*domain.Sweet, error) {
			return h.svc.CreateSweet(c.Request.Context(), service.CreateSweetInput{
				Name:          in.Name,
				Price:         in.Price,
				Description:   in.Description,
				Category:      in.Category,
				ImageURL:      in.ImageURL,
				StockQuantity: in.StockQuantity,
				IsAvailable:   in.IsAvailable,
			})
		},
	})

	httpez.RegisterAction(e, httpez.Action[updateSweetIn, *domain.Sweet]{
		Method: http.MethodPut,
		Path:   "/sweets/:id",
		Binder: httpez.BindJSON,
		Roles:  staffOrAdmin,
		Handler: func(c *gin.Context, in *updateSweetIn) (*domain.Sweet, error) {
			p := domain.SweetPatch{
				Name:          in.Name,
				Price:         in.Price,
				Description:   in.Description,
				ImageURL:      in.ImageURL,
				StockQuantity: in.StockQuantity,
				IsAvailable:   in.IsAvailable,
			}
			if in.Category != nil {
				cat := domain.Category(*in.Category)
				p.Category = &cat
			}
			return h.svc.UpdateSweet(c.Request.Context(), c.Param("id"), p)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/sweets/:id",
		Binder: httpez.BindNone,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.svc.DeleteSweet(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Sweet deleted successfully"}, nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[quantityIn, *domain.Sweet]{
		Method: http.MethodPost,
		Path:   "/sweets/:id/purchase",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *quantityIn) (*domain.Sweet, error) {
			q, err := in.value()
			if err != nil {
				return nil, err
			}
			return h.svc.PurchaseSweet(c.Request.Context(), c.Param("id"), q)
		},
	})

	httpez.RegisterAction(e, httpez.Action[quantityIn, *domain.Sweet]{
		Method: http.MethodPost,
		Path:   "/sweets/:id/restock",
		Binder: httpez.BindJSON,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *quantityIn) (*domain.Sweet, error) {
			q, err := in.value()
			if err != nil {
				return nil, err
			}
			return h.svc.RestockSweet(c.Request.Context(), c.Param("id"), q)
		},
	})
}
