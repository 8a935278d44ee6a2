package interfaces

import (
	"context"

	"github.com/secmon-lab/conformity/pkg/domain/model"
)

type FrameworkRepository interface {
	// Create stores a framework with auto-generated ID. Names are unique.
	Create(ctx context.Context, framework *model.Framework) (*model.Framework, error)

	// Get retrieves a framework by name
	Get(ctx context.Context, name string) (*model.Framework, error)

	// List retrieves all frameworks ordered by ID
	List(ctx context.Context) ([]*model.Framework, error)
}
