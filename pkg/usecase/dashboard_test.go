package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"github.com/secmon-lab/conformity/pkg/usecase"
)

func TestDashboardUseCase_Summary(t *testing.T) {
	t.Run("empty repository", func(t *testing.T) {
		uc, ctx := setup(t)

		summary, err := uc.Dashboard.Summary(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, summary.AverageScore).Equal(0)
		gt.Value(t, summary.TotalAssessments).Equal(0)
		gt.Value(t, summary.TotalActions).Equal(0)
		gt.Array(t, summary.Frameworks).Length(3).Required()
		for _, fw := range summary.Frameworks {
			gt.Value(t, fw.AssessmentID).Equal(int64(0))
			gt.Value(t, fw.UpdatedAt).Nil()
		}
	})

	t.Run("aggregates assessments and actions", func(t *testing.T) {
		uc, ctx := setup(t)

		// Export Control: 100 and completed
		ec, err := uc.Assessment.CreateAssessment(ctx, usecase.CreateAssessmentInput{
			OrganizationName: "Acme Corp",
			FrameworkType:    testExportControl,
			Responses:        completeExportControlResponses(),
		})
		gt.NoError(t, err).Required()

		// GDPR: first 0, then a newer one at 50
		_, err = uc.Assessment.CreateAssessment(ctx, usecase.CreateAssessmentInput{
			OrganizationName: "Acme Corp",
			FrameworkType:    testGDPR,
			Responses:        model.Responses{"gdpr-1": types.ResponseNonCompliant},
		})
		gt.NoError(t, err).Required()
		newer, err := uc.Assessment.CreateAssessment(ctx, usecase.CreateAssessmentInput{
			OrganizationName: "Acme EU",
			FrameworkType:    testGDPR,
			Responses:        model.Responses{"gdpr-1": types.ResponsePartial},
		})
		gt.NoError(t, err).Required()

		_, err = uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			AssessmentID: &ec.ID,
			Title:        "Open critical",
			Priority:     types.PriorityCritical,
		})
		gt.NoError(t, err).Required()
		_, err = uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:    "Done critical",
			Priority: types.PriorityCritical,
			Status:   types.ActionStatusCompleted,
		})
		gt.NoError(t, err).Required()
		_, err = uc.ActionItem.CreateActionItem(ctx, usecase.CreateActionItemInput{
			Title:    "In progress low",
			Priority: types.PriorityLow,
			Status:   types.ActionStatusInProgress,
		})
		gt.NoError(t, err).Required()

		summary, err := uc.Dashboard.Summary(ctx)
		gt.NoError(t, err).Required()

		gt.Value(t, summary.TotalAssessments).Equal(3)
		gt.Value(t, summary.CompletedAssessments).Equal(1)
		gt.Value(t, summary.InProgressAssessments).Equal(2)
		gt.Value(t, summary.AverageScore).Equal(50)
		gt.Value(t, summary.TotalActions).Equal(3)
		gt.Value(t, summary.CriticalActions).Equal(1)
		gt.Value(t, summary.OpenActions).Equal(1)

		progress := make(map[string]usecase.FrameworkProgress)
		for _, fw := range summary.Frameworks {
			progress[fw.FrameworkType] = fw
		}
		gt.Map(t, progress).HasKey(testExportControl)
		gt.Map(t, progress).HasKey(testGDPR)
		gt.Map(t, progress).HasKey(testAIRMF)

		gt.Value(t, progress[testExportControl].OverallScore).Equal(100)
		gt.Value(t, progress[testExportControl].Status).Equal(types.AssessmentCompleted)
		gt.Value(t, progress[testGDPR].AssessmentID).Equal(newer.ID)
		gt.Value(t, progress[testGDPR].OrganizationName).Equal("Acme EU")
		gt.Value(t, progress[testGDPR].OverallScore).Equal(50)
		gt.Value(t, progress[testAIRMF].AssessmentID).Equal(int64(0))
	})
}
