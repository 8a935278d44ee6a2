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

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.Assessment
	nextID      int64
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[int64]*model.Assessment),
		nextID:      1,
	}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := assessment.Copy()
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.assessments[created.ID] = created
	return created.Copy(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return assessment.Copy(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	return r.filter(func(*model.Assessment) bool { return true }), nil
}

func (r *assessmentRepository) ListByFramework(ctx context.Context, frameworkType string) ([]*model.Assessment, error) {
	return r.filter(func(a *model.Assessment) bool {
		return a.FrameworkType == frameworkType
	}), nil
}

func (r *assessmentRepository) filter(match func(*model.Assessment) bool) []*model.Assessment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.Assessment, 0, len(r.assessments))
	for _, assessment := range r.assessments {
		if match(assessment) {
			assessments = append(assessments, assessment.Copy())
		}
	}

	slices.SortFunc(assessments, func(a, b *model.Assessment) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return assessments
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assessments[assessment.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", assessment.ID))
	}

	updated := assessment.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.assessments[updated.ID] = updated
	return updated.Copy(), nil
}
