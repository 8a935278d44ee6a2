package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/scoring"
	"github.com/secmon-lab/conformity/pkg/utils/logging"
)

type FrameworkUseCase struct {
	repo interfaces.Repository
}

func NewFrameworkUseCase(repo interfaces.Repository) *FrameworkUseCase {
	return &FrameworkUseCase{
		repo: repo,
	}
}

// Seed stores the catalog frameworks that are not in the repository yet and
// returns how many were created. Existing frameworks are left untouched.
func (uc *FrameworkUseCase) Seed(ctx context.Context, frameworks []*model.Framework) (int, error) {
	created := 0
	for _, fw := range frameworks {
		_, err := uc.repo.Framework().Get(ctx, fw.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, interfaces.ErrNotFound) {
			return created, goerr.Wrap(err, "failed to look up framework", goerr.V(FrameworkKey, fw.Name))
		}

		if _, err := uc.repo.Framework().Create(ctx, fw); err != nil {
			// Another instance may have seeded it concurrently
			if errors.Is(err, interfaces.ErrAlreadyExists) {
				continue
			}
			return created, goerr.Wrap(err, "failed to seed framework", goerr.V(FrameworkKey, fw.Name))
		}

		logging.From(ctx).Info("Framework seeded",
			"name", fw.Name,
			"version", fw.Version,
			"questions", len(fw.Questions),
		)
		created++
	}

	return created, nil
}

func (uc *FrameworkUseCase) ListFrameworks(ctx context.Context) ([]*model.Framework, error) {
	frameworks, err := uc.repo.Framework().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list frameworks")
	}
	return frameworks, nil
}

func (uc *FrameworkUseCase) GetFramework(ctx context.Context, name string) (*model.Framework, error) {
	return getFramework(ctx, uc.repo, name)
}

// Score evaluates responses against a framework without persisting anything
func (uc *FrameworkUseCase) Score(ctx context.Context, name string, responses model.Responses) (*scoring.Evaluation, error) {
	fw, err := getFramework(ctx, uc.repo, name)
	if err != nil {
		return nil, err
	}

	if err := validateResponses(fw, responses); err != nil {
		return nil, err
	}

	return scoring.Evaluate(fw, responses.Clone()), nil
}

func getFramework(ctx context.Context, repo interfaces.Repository, name string) (*model.Framework, error) {
	fw, err := repo.Framework().Get(ctx, name)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrFrameworkNotFound, "framework not found", goerr.V(FrameworkKey, name))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V(FrameworkKey, name))
	}
	return fw, nil
}

// validateResponses rejects answers to unknown questions and values outside
// the response vocabulary
func validateResponses(fw *model.Framework, responses model.Responses) error {
	for id, status := range responses {
		if _, ok := fw.Question(id); !ok {
			return goerr.Wrap(ErrInvalidInput, "unknown question",
				goerr.V(FrameworkKey, fw.Name),
				goerr.V("question_id", id))
		}
		if !status.IsValid() {
			return goerr.Wrap(ErrInvalidInput, "invalid response value",
				goerr.V("question_id", id),
				goerr.V("response", status))
		}
	}
	return nil
}
