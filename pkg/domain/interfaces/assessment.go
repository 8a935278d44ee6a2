package interfaces

import (
	"context"

	"github.com/secmon-lab/conformity/pkg/domain/model"
)

type AssessmentRepository interface {
	// Create creates a new assessment with auto-generated ID
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id int64) (*model.Assessment, error)

	// List retrieves all assessments ordered by ID
	List(ctx context.Context) ([]*model.Assessment, error)

	// ListByFramework retrieves assessments of the given framework ordered by ID
	ListByFramework(ctx context.Context, frameworkType string) ([]*model.Assessment, error)

	// Update replaces the mutable fields of an existing assessment
	Update(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)
}
