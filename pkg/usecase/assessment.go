package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/scoring"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"github.com/secmon-lab/conformity/pkg/service/slack"
)

type AssessmentUseCase struct {
	repo     interfaces.Repository
	notifier *notifier
}

// NewAssessmentUseCase creates the use case. Completion summaries are posted
// to channelID when slackService is not nil.
func NewAssessmentUseCase(repo interfaces.Repository, slackService slack.Service, channelID, baseURL string) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:     repo,
		notifier: newNotifier(slackService, channelID, baseURL),
	}
}

// CreateAssessmentInput holds the fields accepted when starting an assessment.
// Status is optional and derived from completion when empty.
type CreateAssessmentInput struct {
	OrganizationName string
	FrameworkType    string
	Responses        model.Responses
	Status           types.AssessmentStatus
}

// UpdateAssessmentInput holds a partial update. Nil fields are left unchanged
// and a non-nil Responses replaces the stored answers.
type UpdateAssessmentInput struct {
	OrganizationName *string
	Responses        model.Responses
	Status           *types.AssessmentStatus
}

func (uc *AssessmentUseCase) CreateAssessment(ctx context.Context, input CreateAssessmentInput) (*model.Assessment, error) {
	if input.OrganizationName == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "organization name is required")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid assessment status", goerr.V("status", input.Status))
	}

	fw, err := getFramework(ctx, uc.repo, input.FrameworkType)
	if err != nil {
		return nil, err
	}

	responses := input.Responses.Clone()
	if err := validateResponses(fw, responses); err != nil {
		return nil, err
	}

	eval := scoring.Evaluate(fw, responses)
	assessment := &model.Assessment{
		OrganizationName: input.OrganizationName,
		FrameworkType:    fw.Name,
		OverallScore:     eval.OverallScore,
		Responses:        responses,
		Status:           resolveStatus(input.Status, eval),
	}

	created, err := uc.repo.Assessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	if created.Status == types.AssessmentCompleted {
		uc.notifier.assessmentCompleted(ctx, created, eval)
	}

	return created, nil
}

func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, id int64) (*model.Assessment, error) {
	return getAssessment(ctx, uc.repo, id)
}

func (uc *AssessmentUseCase) ListAssessments(ctx context.Context) ([]*model.Assessment, error) {
	assessments, err := uc.repo.Assessment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}
	return assessments, nil
}

func (uc *AssessmentUseCase) ListAssessmentsByFramework(ctx context.Context, frameworkType string) ([]*model.Assessment, error) {
	assessments, err := uc.repo.Assessment().ListByFramework(ctx, frameworkType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(FrameworkKey, frameworkType))
	}
	return assessments, nil
}

// UpdateAssessment applies a partial update and recomputes the overall score
func (uc *AssessmentUseCase) UpdateAssessment(ctx context.Context, id int64, input UpdateAssessmentInput) (*model.Assessment, error) {
	existing, err := getAssessment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	fw, err := getFramework(ctx, uc.repo, existing.FrameworkType)
	if err != nil {
		return nil, err
	}

	updated := existing.Copy()
	if input.OrganizationName != nil {
		if *input.OrganizationName == "" {
			return nil, goerr.Wrap(ErrInvalidInput, "organization name is required", goerr.V(AssessmentIDKey, id))
		}
		updated.OrganizationName = *input.OrganizationName
	}
	if input.Responses != nil {
		if err := validateResponses(fw, input.Responses); err != nil {
			return nil, err
		}
		updated.Responses = input.Responses.Clone()
	}

	var status types.AssessmentStatus
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid assessment status",
				goerr.V(AssessmentIDKey, id),
				goerr.V("status", *input.Status))
		}
		status = *input.Status
	}

	eval := scoring.Evaluate(fw, updated.Responses)
	updated.OverallScore = eval.OverallScore
	updated.Status = resolveStatus(status, eval)

	saved, err := uc.repo.Assessment().Update(ctx, updated)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V(AssessmentIDKey, id))
	}

	if existing.Status != types.AssessmentCompleted && saved.Status == types.AssessmentCompleted {
		uc.notifier.assessmentCompleted(ctx, saved, eval)
	}

	return saved, nil
}

// EvaluateAssessment runs the framework's scorers on the stored responses
func (uc *AssessmentUseCase) EvaluateAssessment(ctx context.Context, id int64) (*scoring.Evaluation, error) {
	assessment, err := getAssessment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	fw, err := getFramework(ctx, uc.repo, assessment.FrameworkType)
	if err != nil {
		return nil, err
	}

	return scoring.Evaluate(fw, assessment.Responses), nil
}

func getAssessment(ctx context.Context, repo interfaces.Repository, id int64) (*model.Assessment, error) {
	assessment, err := repo.Assessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(AssessmentIDKey, id))
	}
	return assessment, nil
}

// resolveStatus keeps an explicitly requested status. Otherwise the
// assessment is completed once every question has an answer.
func resolveStatus(requested types.AssessmentStatus, eval *scoring.Evaluation) types.AssessmentStatus {
	if requested != "" {
		return requested
	}
	if eval.IsComplete() {
		return types.AssessmentCompleted
	}
	return types.AssessmentInProgress
}
