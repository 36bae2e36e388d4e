package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halwaipro/internal/domain"
	"halwaipro/internal/repo"
)

func ptr[T any](v T) *T { return &v }

func newSweetService() *SweetService { return NewSweetService(repo.NewMemorySweetRepo()) }

func gulabJamun(stock int) CreateSweetInput {
	return CreateSweetInput{
		Name:          "Gulab Jamun",
		Price:         ptr(decimal.NewFromInt(50)),
		Description:   "Soft and juicy milk solids balls",
		Category:      string(domain.CategoryMilkBased),
		ImageURL:      "http://example.com/gulabjamun.jpg",
		StockQuantity: ptr(stock),
	}
}

func TestSweetService_CreateSweet(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()

	sw, err := svc.CreateSweet(ctx, gulabJamun(100))
	require.NoError(t, err)
	assert.NotEmpty(t, sw.ID)
	assert.Equal(t, 100, sw.StockQuantity)
	assert.False(t, sw.IsAvailable)

	in := gulabJamun(0)
	in.StockQuantity = nil
	sw, err = svc.CreateSweet(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 0, sw.StockQuantity)

	// 价格为 0 是合法的
	in = gulabJamun(1)
	in.Price = ptr(decimal.Zero)
	_, err = svc.CreateSweet(ctx, in)
	assert.NoError(t, err)

	bad := []func(*CreateSweetInput){
		func(in *CreateSweetInput) { in.Name = "" },
		func(in *CreateSweetInput) { in.Price = nil },
		func(in *CreateSweetInput) { in.Description = "  " },
		func(in *CreateSweetInput) { in.Category = "" },
		func(in *CreateSweetInput) { in.ImageURL = "" },
		func(in *CreateSweetInput) { in.Name = "GJ" },
		func(in *CreateSweetInput) { in.Price = ptr(decimal.NewFromInt(-1)) },
		func(in *CreateSweetInput) { in.Category = "Candy" },
		func(in *CreateSweetInput) { in.StockQuantity = ptr(-3) },
	}
	for i, mut := range bad {
		in := gulabJamun(1)
		mut(&in)
		_, err := svc.CreateSweet(ctx, in)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "case %d", i)
	}
}

func TestSweetService_PurchaseAndRestockScenario(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	sw, err := svc.CreateSweet(ctx, gulabJamun(100))
	require.NoError(t, err)

	sw, err = svc.PurchaseSweet(ctx, sw.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 95, sw.StockQuantity)

	sw, err = svc.RestockSweet(ctx, sw.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 145, sw.StockQuantity)
}

func TestSweetService_PurchaseRestockRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	sw, err := svc.CreateSweet(ctx, gulabJamun(30))
	require.NoError(t, err)

	for _, q := range []int{1, 7, 30} {
		_, err := svc.PurchaseSweet(ctx, sw.ID, q)
		require.NoError(t, err)
		got, err := svc.RestockSweet(ctx, sw.ID, q)
		require.NoError(t, err)
		assert.Equal(t, 30, got.StockQuantity, "q=%d", q)
	}
}

func TestSweetService_PurchaseInsufficientStockLeavesStock(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	sw, err := svc.CreateSweet(ctx, gulabJamun(3))
	require.NoError(t, err)

	for _, q := range []int{4, 10, 1000} {
		_, err := svc.PurchaseSweet(ctx, sw.ID, q)
		assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
		got, err := svc.GetSweet(ctx, sw.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.StockQuantity)
	}

	got, err := svc.PurchaseSweet(ctx, sw.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)
	assert.False(t, got.IsAvailable) // 不随库存自动切换
}

func TestSweetService_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	sw, err := svc.CreateSweet(ctx, gulabJamun(3))
	require.NoError(t, err)

	for _, q := range []int{0, -1} {
		_, err := svc.PurchaseSweet(ctx, sw.ID, q)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		_, err = svc.RestockSweet(ctx, sw.ID, q)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}
}

func TestSweetService_NotFoundEverywhere(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	const id = "doesnotexist"

	_, err := svc.GetSweet(ctx, id)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = svc.UpdateSweet(ctx, id, domain.SweetPatch{Name: ptr("Barfi")})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	err = svc.DeleteSweet(ctx, id)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = svc.PurchaseSweet(ctx, id, 1)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = svc.RestockSweet(ctx, id, 1)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSweetService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	sw, err := svc.CreateSweet(ctx, gulabJamun(10))
	require.NoError(t, err)

	cat := domain.CategoryVegetarian
	got, err := svc.UpdateSweet(ctx, sw.ID, domain.SweetPatch{
		Name:        ptr("  Rasgulla "),
		Price:       ptr(decimal.RequireFromString("65.5")),
		Category:    &cat,
		IsAvailable: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rasgulla", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("65.5")))
	assert.Equal(t, domain.CategoryVegetarian, got.Category)
	assert.True(t, got.IsAvailable)
	assert.Equal(t, 10, got.StockQuantity)
	assert.Equal(t, sw.Description, got.Description)

	badCat := domain.Category("Candy")
	_, err = svc.UpdateSweet(ctx, sw.ID, domain.SweetPatch{Category: &badCat})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.UpdateSweet(ctx, sw.ID, domain.SweetPatch{StockQuantity: ptr(-1)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.UpdateSweet(ctx, sw.ID, domain.SweetPatch{Description: ptr("")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, svc.DeleteSweet(ctx, sw.ID))
	_, err = svc.GetSweet(ctx, sw.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSweetService_SearchPriceRange(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	prices := []int64{0, 10, 25, 50, 75, 100, 150}
	for _, p := range prices {
		in := gulabJamun(1)
		in.Price = ptr(decimal.NewFromInt(p))
		_, err := svc.CreateSweet(ctx, in)
		require.NoError(t, err)
	}

	for _, a := range prices {
		for _, b := range prices {
			if a > b {
				continue
			}
			got, err := svc.SearchSweets(ctx, SearchQuery{
				MinPrice: decimal.NewFromInt(a).String(),
				MaxPrice: decimal.NewFromInt(b).String(),
			})
			require.NoError(t, err)
			want := 0
			for _, p := range prices {
				if p >= a && p <= b {
					want++
				}
			}
			assert.Len(t, got, want, "[%d,%d]", a, b)
			for _, s := range got {
				assert.True(t, s.Price.GreaterThanOrEqual(decimal.NewFromInt(a)))
				assert.True(t, s.Price.LessThanOrEqual(decimal.NewFromInt(b)))
			}
		}
	}
}

func TestSweetService_SearchCriteria(t *testing.T) {
	ctx := context.Background()
	svc := newSweetService()
	_, err := svc.CreateSweet(ctx, gulabJamun(1))
	require.NoError(t, err)
	in := gulabJamun(1)
	in.Name, in.Category = "Kaju Katli", string(domain.CategoryNonMilkBased)
	_, err = svc.CreateSweet(ctx, in)
	require.NoError(t, err)

	all, err := svc.SearchSweets(ctx, SearchQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := svc.SearchSweets(ctx, SearchQuery{Name: "KATLI"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kaju Katli", got[0].Name)

	got, err = svc.SearchSweets(ctx, SearchQuery{Category: "Milk Based"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gulab Jamun", got[0].Name)

	_, err = svc.SearchSweets(ctx, SearchQuery{MinPrice: "cheap"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	list, err := svc.ListSweets(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, list)
}
