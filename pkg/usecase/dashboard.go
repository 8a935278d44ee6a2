package usecase

import (
	"context"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

type DashboardUseCase struct {
	repo interfaces.Repository
}

func NewDashboardUseCase(repo interfaces.Repository) *DashboardUseCase {
	return &DashboardUseCase{
		repo: repo,
	}
}

// FrameworkProgress is the latest assessment state of one framework.
// AssessmentID is zero when the framework has not been assessed.
type FrameworkProgress struct {
	FrameworkType    string                 `json:"frameworkType"`
	AssessmentID     int64                  `json:"assessmentId,omitempty"`
	OrganizationName string                 `json:"organizationName,omitempty"`
	OverallScore     int                    `json:"overallScore"`
	Status           types.AssessmentStatus `json:"status,omitempty"`
	UpdatedAt        *time.Time             `json:"updatedAt,omitempty"`
}

type DashboardSummary struct {
	AverageScore          int                 `json:"averageScore"`
	TotalAssessments      int                 `json:"totalAssessments"`
	CompletedAssessments  int                 `json:"completedAssessments"`
	InProgressAssessments int                 `json:"inProgressAssessments"`
	TotalActions          int                 `json:"totalActions"`
	CriticalActions       int                 `json:"criticalActions"`
	OpenActions           int                 `json:"openActions"`
	Frameworks            []FrameworkProgress `json:"frameworks"`
}

// Summary aggregates assessments and action items for the dashboard
func (uc *DashboardUseCase) Summary(ctx context.Context) (*DashboardSummary, error) {
	var (
		frameworks  []*model.Framework
		assessments []*model.Assessment
		items       []*model.ActionItem
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		frameworks, err = uc.repo.Framework().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list frameworks")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		assessments, err = uc.repo.Assessment().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list assessments")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		items, err = uc.repo.ActionItem().List(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to list action items")
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalAssessments: len(assessments),
		TotalActions:     len(items),
		Frameworks:       make([]FrameworkProgress, 0, len(frameworks)),
	}

	latest := make(map[string]*model.Assessment)
	totalScore := 0
	for _, a := range assessments {
		totalScore += a.OverallScore
		switch a.Status {
		case types.AssessmentCompleted:
			summary.CompletedAssessments++
		case types.AssessmentInProgress:
			summary.InProgressAssessments++
		}

		// assessments are ordered by ID, so the newer one wins a tie
		if cur, ok := latest[a.FrameworkType]; !ok || !a.UpdatedAt.Before(cur.UpdatedAt) {
			latest[a.FrameworkType] = a
		}
	}
	if len(assessments) > 0 {
		summary.AverageScore = int(math.Round(float64(totalScore) / float64(len(assessments))))
	}

	for _, item := range items {
		if item.IsOpenCritical() {
			summary.CriticalActions++
		}
		if item.Status == types.ActionStatusOpen {
			summary.OpenActions++
		}
	}

	for _, fw := range frameworks {
		progress := FrameworkProgress{FrameworkType: fw.Name}
		if a, ok := latest[fw.Name]; ok {
			updatedAt := a.UpdatedAt
			progress.AssessmentID = a.ID
			progress.OrganizationName = a.OrganizationName
			progress.OverallScore = a.OverallScore
			progress.Status = a.Status
			progress.UpdatedAt = &updatedAt
		}
		summary.Frameworks = append(summary.Frameworks, progress)
	}

	return summary, nil
}
