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

type frameworkRepository struct {
	mu         sync.RWMutex
	frameworks map[string]*model.Framework
	nextID     int64
}

func newFrameworkRepository() *frameworkRepository {
	return &frameworkRepository{
		frameworks: make(map[string]*model.Framework),
		nextID:     1,
	}
}

func (r *frameworkRepository) Create(ctx context.Context, framework *model.Framework) (*model.Framework, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.frameworks[framework.Name]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "framework already exists", goerr.V("name", framework.Name))
	}

	created := framework.Copy()
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.frameworks[created.Name] = created
	return created.Copy(), nil
}

func (r *frameworkRepository) Get(ctx context.Context, name string) (*model.Framework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	framework, exists := r.frameworks[name]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "framework not found", goerr.V("name", name))
	}

	return framework.Copy(), nil
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.Framework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	frameworks := make([]*model.Framework, 0, len(r.frameworks))
	for _, framework := range r.frameworks {
		frameworks = append(frameworks, framework.Copy())
	}

	slices.SortFunc(frameworks, func(a, b *model.Framework) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return frameworks, nil
}
