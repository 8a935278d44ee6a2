package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

type ActionItemUseCase struct {
	repo interfaces.Repository
}

func NewActionItemUseCase(repo interfaces.Repository) *ActionItemUseCase {
	return &ActionItemUseCase{
		repo: repo,
	}
}

// CreateActionItemInput holds the fields of a new action item. FrameworkType
// is inherited from the linked assessment when empty.
type CreateActionItemInput struct {
	AssessmentID  *int64
	Title         string
	Description   string
	Priority      types.Priority
	Status        types.ActionStatus
	DueDate       *time.Time
	FrameworkType string
}

// UpdateActionItemInput holds a partial update. Nil fields are left unchanged.
type UpdateActionItemInput struct {
	Title       *string
	Description *string
	Priority    *types.Priority
	Status      *types.ActionStatus
	DueDate     *time.Time
}

func (uc *ActionItemUseCase) CreateActionItem(ctx context.Context, input CreateActionItemInput) (*model.ActionItem, error) {
	if input.Title == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "action item title is required")
	}
	if !input.Priority.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid priority", goerr.V("priority", input.Priority))
	}

	// Default status to open if not provided
	status := input.Status
	if status == "" {
		status = types.ActionStatusOpen
	}
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid action status", goerr.V("status", status))
	}

	frameworkType := input.FrameworkType
	if input.AssessmentID != nil {
		assessment, err := getAssessment(ctx, uc.repo, *input.AssessmentID)
		if err != nil {
			return nil, err
		}
		if frameworkType == "" {
			frameworkType = assessment.FrameworkType
		}
	}

	created, err := uc.repo.ActionItem().Create(ctx, &model.ActionItem{
		AssessmentID:  input.AssessmentID,
		Title:         input.Title,
		Description:   input.Description,
		Priority:      input.Priority,
		Status:        status,
		DueDate:       input.DueDate,
		FrameworkType: frameworkType,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action item")
	}

	return created, nil
}

func (uc *ActionItemUseCase) GetActionItem(ctx context.Context, id int64) (*model.ActionItem, error) {
	item, err := uc.repo.ActionItem().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrActionItemNotFound, "action item not found", goerr.V(ActionItemIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get action item", goerr.V(ActionItemIDKey, id))
	}
	return item, nil
}

func (uc *ActionItemUseCase) ListActionItems(ctx context.Context) ([]*model.ActionItem, error) {
	items, err := uc.repo.ActionItem().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items")
	}
	return items, nil
}

func (uc *ActionItemUseCase) ListActionItemsByAssessment(ctx context.Context, assessmentID int64) ([]*model.ActionItem, error) {
	items, err := uc.repo.ActionItem().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items", goerr.V(AssessmentIDKey, assessmentID))
	}
	return items, nil
}

func (uc *ActionItemUseCase) ListActionItemsByFramework(ctx context.Context, frameworkType string) ([]*model.ActionItem, error) {
	items, err := uc.repo.ActionItem().ListByFramework(ctx, frameworkType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items", goerr.V(FrameworkKey, frameworkType))
	}
	return items, nil
}

func (uc *ActionItemUseCase) UpdateActionItem(ctx context.Context, id int64, input UpdateActionItemInput) (*model.ActionItem, error) {
	item, err := uc.GetActionItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, goerr.Wrap(ErrInvalidInput, "action item title is required", goerr.V(ActionItemIDKey, id))
		}
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid priority",
				goerr.V(ActionItemIDKey, id),
				goerr.V("priority", *input.Priority))
		}
		item.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid action status",
				goerr.V(ActionItemIDKey, id),
				goerr.V("status", *input.Status))
		}
		item.Status = *input.Status
	}
	if input.DueDate != nil {
		due := *input.DueDate
		item.DueDate = &due
	}

	updated, err := uc.repo.ActionItem().Update(ctx, item)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V(ActionItemIDKey, id))
	}

	return updated, nil
}
