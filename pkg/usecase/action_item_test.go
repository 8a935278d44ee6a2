package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"github.com/secmon-lab/conformity/pkg/usecase"
)

func TestActionItemUseCase_CreateActionItem(t *testing.T) {
	t.Run("inherits framework from the assessment", func(t *testing.T) {
		uc, ctx := setup(t)

		assessment, err := uc.Assessment.CreateAssessment(ctx, usecase.CreateAssessmentInput{
			OrganizationName: "Acme Corp",
			FrameworkType:    testExportControl,
		})
		gt.NoError(t, err).Required()

		due := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		created, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			AssessmentID: &assessment.ID,
			Title:        "Classify dual-use items",
			Description:  "Review ECCN for all products",
			Priority:     types.PriorityCritical,
			DueDate:      &due,
		})
		gt.NoError(t, err).Required()

		gt.Number(t, created.ID).NotEqual(0)
		gt.Value(t, created.Title).Equal("Classify dual-use items")
		gt.Value(t, created.Status).Equal(types.ActionStatusOpen)
		gt.Value(t, created.FrameworkType).Equal(testExportControl)
		gt.Value(t, created.AssessmentID).NotNil().Required()
		gt.Value(t, *created.AssessmentID).Equal(assessment.ID)
		gt.Value(t, created.DueDate).NotNil().Required()
		gt.Bool(t, created.DueDate.Equal(due)).True()
	})

	t.Run("standalone item keeps the given framework", func(t *testing.T) {
		uc, ctx := setup(t)

		created, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:         "Appoint a DPO",
			Priority:      types.PriorityHigh,
			Status:        types.ActionStatusInProgress,
			FrameworkType: testGDPR,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.AssessmentID).Nil()
		gt.Value(t, created.FrameworkType).Equal(testGDPR)
		gt.Value(t, created.Status).Equal(types.ActionStatusInProgress)
	})

	t.Run("title is required", func(t *testing.T) {
		uc, ctx := setup(t)

		_, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Priority: types.PriorityLow,
		})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("invalid priority is rejected", func(t *testing.T) {
		uc, ctx := setup(t)

		_, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:    "Something",
			Priority: types.Priority("urgent"),
		})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		uc, ctx := setup(t)

		_, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:    "Something",
			Priority: types.PriorityLow,
			Status:   types.ActionStatus("blocked"),
		})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("unknown assessment", func(t *testing.T) {
		uc, ctx := setup(t)

		id := int64(9999)
		_, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			AssessmentID: &id,
			Title:        "Something",
			Priority:     types.PriorityLow,
		})
		gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)
	})
}

func TestActionItemUseCase_List(t *testing.T) {
	uc, ctx := setup(t)

	assessment, err := uc.Assessment.CreateAssessment(ctx, usecase.CreateAssessmentInput{
		OrganizationName: "Acme Corp",
		FrameworkType:    testExportControl,
	})
	gt.NoError(t, err).Required()

	linked, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
		AssessmentID: &assessment.ID,
		Title:        "Screen customers",
		Priority:     types.PriorityHigh,
	})
	gt.NoError(t, err).Required()
	standalone, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
		Title:         "Update privacy notice",
		Priority:      types.PriorityMedium,
		FrameworkType: testGDPR,
	})
	gt.NoError(t, err).Required()

	all, err := uc.ActionItem.ListActionItems(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(2).Required()
	gt.Value(t, all[0].ID).Equal(linked.ID)
	gt.Value(t, all[1].ID).Equal(standalone.ID)

	byAssessment, err := uc.ActionItem.ListActionItemsByAssessment(ctx, assessment.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, byAssessment).Length(1).Required()
	gt.Value(t, byAssessment[0].ID).Equal(linked.ID)

	byFramework, err := uc.ActionItem.ListActionItemsByFramework(ctx, testGDPR)
	gt.NoError(t, err).Required()
	gt.Array(t, byFramework).Length(1).Required()
	gt.Value(t, byFramework[0].ID).Equal(standalone.ID)

	got, err := uc.ActionItem.GetActionItem(ctx, linked.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Title).Equal("Screen customers")

	_, err = uc.ActionItem.GetActionItem(ctx, 9999)
	gt.Error(t, err).Is(usecase.ErrActionItemNotFound)
}

func TestActionItemUseCase_UpdateActionItem(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		uc, ctx := setup(t)

		created, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:       "Screen customers",
			Description: "Against the consolidated list",
			Priority:    types.PriorityHigh,
		})
		gt.NoError(t, err).Required()

		status := types.ActionStatusCompleted
		priority := types.PriorityCritical
		updated, err := uc.ActionItem.UpdateActionItem(ctx, created.ID, usecase.UpdateActionItemInput{
			Status:   &status,
			Priority: &priority,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.ActionStatusCompleted)
		gt.Value(t, updated.Priority).Equal(types.PriorityCritical)
		gt.Value(t, updated.Title).Equal("Screen customers")
		gt.Value(t, updated.Description).Equal("Against the consolidated list")
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		uc, ctx := setup(t)

		created, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:    "Screen customers",
			Priority: types.PriorityHigh,
		})
		gt.NoError(t, err).Required()

		empty := ""
		_, err = uc.ActionItem.UpdateActionItem(ctx, created.ID, usecase.UpdateActionItemInput{
			Title: &empty,
		})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		uc, ctx := setup(t)

		created, err := uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:    "Screen customers",
			Priority: types.PriorityHigh,
		})
		gt.NoError(t, err).Required()

		status := types.ActionStatus("done")
		_, err = uc.ActionItem.UpdateActionItem(ctx, created.ID, usecase.UpdateActionItemInput{
			Status: &status,
		})
		gt.Error(t, err).Is(usecase.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		uc, ctx := setup(t)

		title := "x"
		_, err := uc.ActionItem.UpdateActionItem(ctx, 9999, usecase.UpdateActionItemInput{Title: &title})
		gt.Error(t, err).Is(usecase.ErrActionItemNotFound)
	})
}
