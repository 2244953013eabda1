package auth

import (
	"context"
	"slices"
	"sync"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var _ UserRepo = (*MemoryUserRepo)(nil)

// UserRepo stores accounts. Emails are expected already normalised.
type UserRepo interface {
	// Create fails with api.ErrConflict when the email is taken.
	Create(ctx context.Context, user types.UserAuth) error
	GetByEmail(ctx context.Context, email string) (types.UserAuth, error)
	GetByID(ctx context.Context, id string) (types.User, error)
	// UpdateInterests replaces the interest set and returns the updated user.
	UpdateInterests(ctx context.Context, id string, interests []string) (types.User, error)
}

// MemoryUserRepo keeps accounts for the lifetime of the process.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]types.UserAuth
	byEmail map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:    make(map[string]types.UserAuth),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepo) Create(_ context.Context, user types.UserAuth) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return api.Errorf(api.ErrConflict, "email %s", user.Email)
	}
	user.User = user.User.Clone()
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (types.UserAuth, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return types.UserAuth{}, api.Errorf(api.ErrNotFound, "user")
	}
	u := r.byID[id]
	u.User = u.User.Clone()
	return u, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return types.User{}, api.Errorf(api.ErrNotFound, "user")
	}
	return u.User.Clone(), nil
}

func (r *MemoryUserRepo) UpdateInterests(_ context.Context, id string, interests []string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return types.User{}, api.Errorf(api.ErrNotFound, "user")
	}
	u.Interests = slices.Clone(interests)
	r.byID[id] = u
	return u.User.Clone(), nil
}

// Delete removes an account. Used by tests to check that tokens of deleted
// users are rejected.
func (r *MemoryUserRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}
