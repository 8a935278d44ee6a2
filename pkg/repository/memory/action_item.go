package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/model"
)

type actionItemRepository struct {
	mu     sync.RWMutex
	items  map[int64]*model.ActionItem
	nextID int64
}

func newActionItemRepository() *actionItemRepository {
	return &actionItemRepository{
		items:  make(map[int64]*model.ActionItem),
		nextID: 1,
	}
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := item.Copy()
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.items[created.ID] = created
	return created.Copy(), nil
}

func (r *actionItemRepository) Get(ctx context.Context, id int64) (*model.ActionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", id))
	}

	return item.Copy(), nil
}

func (r *actionItemRepository) List(ctx context.Context) ([]*model.ActionItem, error) {
	return r.filter(func(*model.ActionItem) bool { return true }), nil
}

func (r *actionItemRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.ActionItem, error) {
	return r.filter(func(item *model.ActionItem) bool {
		return item.AssessmentID != nil && *item.AssessmentID == assessmentID
	}), nil
}

func (r *actionItemRepository) ListByFramework(ctx context.Context, frameworkType string) ([]*model.ActionItem, error) {
	return r.filter(func(item *model.ActionItem) bool {
		return item.FrameworkType == frameworkType
	}), nil
}

func (r *actionItemRepository) filter(match func(*model.ActionItem) bool) []*model.ActionItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.ActionItem, 0, len(r.items))
	for _, item := range r.items {
		if match(item) {
			items = append(items, item.Copy())
		}
	}

	slices.SortFunc(items, func(a, b *model.ActionItem) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return items
}

func (r *actionItemRepository) Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", item.ID))
	}

	updated := item.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.items[updated.ID] = updated
	return updated.Copy(), nil
}
