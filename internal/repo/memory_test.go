package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"halwaipro/internal/domain"
)

func newSweet(id, name string, price int64, cat domain.Category, stock int) *domain.Sweet {
	return &domain.Sweet{
		ID: id, Name: name, Price: decimal.NewFromInt(price), Category: cat,
		Description: "desc", ImageURL: "http://img/" + id, StockQuantity: stock,
	}
}

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	require.NoError(t, r.Create(ctx, &domain.User{ID: "u1", Email: "a@x.io", Name: "Alice", Role: domain.RoleStaff}))
	assert.ErrorIs(t, r.Create(ctx, &domain.User{ID: "u2", Email: "a@x.io"}), domain.ErrDuplicate)

	ok, err := r.ExistsByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, ok)

	u, err := r.FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	u, err = r.FindByEmail(ctx, "nobody@x.io")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = r.UpdateRole(ctx, "u1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	u, err = r.UpdateRole(ctx, "ghost", domain.RoleAdmin)
	assert.NoError(t, err)
	assert.Nil(t, u)

	deleted, err := r.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, _ = r.Delete(ctx, "u1")
	assert.False(t, deleted)
	ok, _ = r.ExistsByEmail(ctx, "a@x.io")
	assert.False(t, ok)
}

func TestMemoryUserRepoList(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryUserRepo()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		i := i
		r.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		require.NoError(t, r.Create(ctx, &domain.User{
			ID: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("user%d@x.io", i), Name: fmt.Sprintf("User %d", i),
		}))
	}

	users, total, err := r.List(ctx, domain.UserQuery{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, users, 2)
	assert.Equal(t, "u3", users[0].ID) // 新的在前
	assert.Equal(t, "u2", users[1].ID)

	users, total, err = r.List(ctx, domain.UserQuery{Q: "USER4", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "u4", users[0].ID)

	users, _, _ = r.List(ctx, domain.UserQuery{Offset: 10, Limit: 10})
	assert.Empty(t, users)
}

func TestMemorySweetRepoFindAll(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySweetRepo()
	require.NoError(t, r.Create(ctx, newSweet("s1", "Gulab Jamun", 50, domain.CategoryMilkBased, 10)))
	require.NoError(t, r.Create(ctx, newSweet("s2", "Kaju Katli", 120, domain.CategoryNonMilkBased, 5)))
	require.NoError(t, r.Create(ctx, newSweet("s3", "Jamun Barfi", 80, domain.CategoryMilkBased, 0)))

	all, err := r.FindAll(ctx, domain.SweetFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids(all))

	got, _ := r.FindAll(ctx, domain.SweetFilter{Name: " jamun "})
	assert.Equal(t, []string{"s1", "s3"}, ids(got))

	lo, hi := decimal.NewFromInt(50), decimal.NewFromInt(80)
	got, _ = r.FindAll(ctx, domain.SweetFilter{Category: domain.CategoryMilkBased, MinPrice: &lo, MaxPrice: &hi})
	assert.Equal(t, []string{"s1", "s3"}, ids(got))

	deleted, err := r.Delete(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, deleted)
	got, _ = r.FindAll(ctx, domain.SweetFilter{})
	assert.Equal(t, []string{"s1", "s3"}, ids(got))
}

func TestMemorySweetRepoStock(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySweetRepo()
	require.NoError(t, r.Create(ctx, newSweet("s1", "Gulab Jamun", 50, domain.CategoryMilkBased, 10)))

	s, ok, err := r.DecreaseStock(ctx, "s1", 4)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6, s.StockQuantity)

	s, ok, err = r.DecreaseStock(ctx, "s1", 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, s)

	_, ok, _ = r.DecreaseStock(ctx, "ghost", 1)
	assert.False(t, ok)

	s, err = r.IncreaseStock(ctx, "s1", 4)
	require.NoError(t, err)
	assert.Equal(t, 10, s.StockQuantity)

	s, err = r.IncreaseStock(ctx, "ghost", 1)
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemorySweetRepoConcurrentDecreaseNeverNegative(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySweetRepo()
	require.NoError(t, r.Create(ctx, newSweet("s1", "Ladoo", 10, domain.CategoryVegetarian, 50)))

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := r.DecreaseStock(ctx, "s1", 1); ok {
				mu.Lock()
				sold++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s, _ := r.FindByID(ctx, "s1")
	assert.Equal(t, 50, sold)
	assert.Equal(t, 0, s.StockQuantity)
}

func TestMemorySweetRepoUpdate(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySweetRepo()
	require.NoError(t, r.Create(ctx, newSweet("s1", "Ladoo", 10, domain.CategoryVegetarian, 3)))

	avail := true
	s, err := r.Update(ctx, "s1", domain.SweetPatch{IsAvailable: &avail})
	require.NoError(t, err)
	assert.True(t, s.IsAvailable)
	assert.Equal(t, "Ladoo", s.Name)

	s, err = r.Update(ctx, "ghost", domain.SweetPatch{IsAvailable: &avail})
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50!%!_off!!`, escapeLike(`50%_off!`))
}

func ids(ss []domain.Sweet) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.ID)
	}
	return out
}
