package interfaces

import (
	"context"

	"github.com/secmon-lab/conformity/pkg/domain/model"
)

type ActionItemRepository interface {
	// Create creates a new action item with auto-generated ID
	Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error)

	// Get retrieves an action item by ID
	Get(ctx context.Context, id int64) (*model.ActionItem, error)

	// List retrieves all action items ordered by ID
	List(ctx context.Context) ([]*model.ActionItem, error)

	// ListByAssessment retrieves action items linked to an assessment
	ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.ActionItem, error)

	// ListByFramework retrieves action items of the given framework
	ListByFramework(ctx context.Context, frameworkType string) ([]*model.ActionItem, error)

	// Update replaces the mutable fields of an existing action item
	Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error)
}
