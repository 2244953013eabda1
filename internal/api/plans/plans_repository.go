package plans

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/types"
)

var _ PlanRepo = (*MemoryPlanRepo)(nil)

// PlanRepo stores saved plans. Every read and delete is scoped to the owner;
// a plan owned by someone else is reported as api.ErrNotFound.
type PlanRepo interface {
	Create(ctx context.Context, plan types.SavedPlan) error
	// ListByUser returns the user's plans, newest first.
	ListByUser(ctx context.Context, userID string) ([]types.SavedPlan, error)
	Get(ctx context.Context, userID, planID string) (types.SavedPlan, error)
	Delete(ctx context.Context, userID, planID string) error
}

type MemoryPlanRepo struct {
	mu    sync.RWMutex
	plans map[string]types.SavedPlan
}

func NewMemoryPlanRepo() *MemoryPlanRepo {
	return &MemoryPlanRepo{plans: make(map[string]types.SavedPlan)}
}

func (r *MemoryPlanRepo) Create(_ context.Context, plan types.SavedPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plans[plan.ID]; exists {
		return api.Errorf(api.ErrConflict, "plan %s", plan.ID)
	}
	r.plans[plan.ID] = plan.Clone()
	return nil
}

func (r *MemoryPlanRepo) ListByUser(_ context.Context, userID string) ([]types.SavedPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.SavedPlan, 0)
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, p.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryPlanRepo) Get(_ context.Context, userID, planID string) (types.SavedPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return types.SavedPlan{}, api.Errorf(api.ErrNotFound, "plan %s", planID)
	}
	return p.Clone(), nil
}

func (r *MemoryPlanRepo) Delete(_ context.Context, userID, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return api.Errorf(api.ErrNotFound, "plan %s", planID)
	}
	delete(r.plans, planID)
	return nil
}

// sortNewestFirst orders by savedAt descending. ULIDs break ties since they
// sort by creation time.
func sortNewestFirst(plans []types.SavedPlan) {
	slices.SortFunc(plans, func(a, b types.SavedPlan) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
