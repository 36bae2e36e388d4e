package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"halwaipro/internal/domain"
)

var (
	_ domain.UserRepository  = (*MemoryUserRepo)(nil)
	_ domain.SweetRepository = (*MemorySweetRepo)(nil)
)

// 内存仓储：db.driver=memory 时使用（本地开发 / 测试），进程退出即丢失

type MemoryUserRepo struct {
	mu    sync.RWMutex
	byID  map[string]*domain.User
	email map[string]string // email -> id
	now   func() time.Time
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:  map[string]*domain.User{},
		email: map[string]string{},
		now:   time.Now,
	}
}

func (r *MemoryUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.email[u.Email]; ok {
		return domain.ErrDuplicate
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.byID[u.ID] = &cp
	r.email[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.email[email]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.email[email]
	return ok, nil
}

func (r *MemoryUserRepo) List(_ context.Context, q domain.UserQuery) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	all := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Email), needle) &&
			!strings.Contains(strings.ToLower(u.Name), needle) {
			continue
		}
		all = append(all, *u)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := int64(len(all))
	return page(all, q.Offset, q.Limit), total, nil
}

func (r *MemoryUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u.Role = role
	u.UpdatedAt = r.now()
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	delete(r.email, u.Email)
	delete(r.byID, id)
	return true, nil
}

type MemorySweetRepo struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Sweet
	order []string // 插入顺序，保证列表稳定
	now   func() time.Time
}

func NewMemorySweetRepo() *MemorySweetRepo {
	return &MemorySweetRepo{byID: map[string]*domain.Sweet{}, now: time.Now}
}

func (r *MemorySweetRepo) Create(_ context.Context, s *domain.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; ok {
		return domain.ErrDuplicate
	}
	now := r.now()
	s.CreatedAt, s.UpdatedAt = now, now
	cp := *s
	r.byID[s.ID] = &cp
	r.order = append(r.order, s.ID)
	return nil
}

func (r *MemorySweetRepo) FindAll(_ context.Context, f domain.SweetFilter) ([]domain.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f.Name = strings.TrimSpace(f.Name)
	out := make([]domain.Sweet, 0, len(r.order))
	for _, id := range r.order {
		s := r.byID[id]
		if f.Match(s) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *MemorySweetRepo) FindByID(_ context.Context, id string) (*domain.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *MemorySweetRepo) Update(_ context.Context, id string, p domain.SweetPatch) (*domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if !p.Empty() {
		p.Apply(s)
		s.UpdatedAt = r.now()
	}
	cp := *s
	return &cp, nil
}

func (r *MemorySweetRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *MemorySweetRepo) DecreaseStock(_ context.Context, id string, qty int) (*domain.Sweet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || s.StockQuantity < qty {
		return nil, false, nil
	}
	s.StockQuantity -= qty
	s.UpdatedAt = r.now()
	cp := *s
	return &cp, true, nil
}

func (r *MemorySweetRepo) IncreaseStock(_ context.Context, id string, qty int) (*domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	s.StockQuantity += qty
	s.UpdatedAt = r.now()
	cp := *s
	return &cp, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
