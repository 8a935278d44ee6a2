package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

func runAssessmentRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		frameworkType := randomName("fw")

		created, err := repo.Assessment().Create(ctx, &model.Assessment{
			OrganizationName: "Acme Corp",
			FrameworkType:    frameworkType,
			OverallScore:     42,
			Responses: model.Responses{
				"q1": types.ResponseCompliant,
				"q2": types.ResponseNonCompliant,
			},
			Status: types.AssessmentInProgress,
		})
		gt.NoError(t, err).Required()

		gt.Bool(t, created.ID > 0).True()
		gt.Value(t, created.OrganizationName).Equal("Acme Corp")
		gt.Value(t, created.FrameworkType).Equal(frameworkType)
		gt.Value(t, created.OverallScore).Equal(42)
		gt.Value(t, created.Status).Equal(types.AssessmentInProgress)
		gt.Value(t, created.Responses.Get("q2")).Equal(types.ResponseNonCompliant)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()

		second, err := repo.Assessment().Create(ctx, &model.Assessment{
			OrganizationName: "Globex",
			FrameworkType:    frameworkType,
			Status:           types.AssessmentInProgress,
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, second.ID > created.ID).True()
	})

	t.Run("Get returns the stored assessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, &model.Assessment{
			OrganizationName: "Initech",
			FrameworkType:    randomName("fw"),
			Responses:        model.Responses{"q1": types.ResponsePartial},
			Status:           types.AssessmentInProgress,
		})
		gt.NoError(t, err).Required()

		got, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.OrganizationName).Equal("Initech")
		gt.Value(t, got.Responses).Equal(model.Responses{"q1": types.ResponsePartial})
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, &model.Assessment{
			OrganizationName: "Umbrella",
			FrameworkType:    randomName("fw"),
			Responses:        model.Responses{"q1": types.ResponseCompliant},
			Status:           types.AssessmentInProgress,
		})
		gt.NoError(t, err).Required()

		created.Responses["q1"] = types.ResponseNonCompliant
		got, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Responses.Get("q1")).Equal(types.ResponseCompliant)
	})

	t.Run("Get fails for missing assessment", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Assessment().Get(context.Background(), 1<<40)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("ListByFramework filters and orders by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		target := randomName("fw")
		other := randomName("fw")

		a1, err := repo.Assessment().Create(ctx, &model.Assessment{OrganizationName: "A", FrameworkType: target, Status: types.AssessmentInProgress})
		gt.NoError(t, err).Required()
		_, err = repo.Assessment().Create(ctx, &model.Assessment{OrganizationName: "B", FrameworkType: other, Status: types.AssessmentInProgress})
		gt.NoError(t, err).Required()
		a3, err := repo.Assessment().Create(ctx, &model.Assessment{OrganizationName: "C", FrameworkType: target, Status: types.AssessmentCompleted})
		gt.NoError(t, err).Required()

		list, err := repo.Assessment().ListByFramework(ctx, target)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].ID).Equal(a1.ID)
		gt.Value(t, list[1].ID).Equal(a3.ID)

		all, err := repo.Assessment().List(ctx)
		gt.NoError(t, err).Required()
		ids := make(map[int64]bool)
		for _, a := range all {
			ids[a.ID] = true
		}
		gt.Bool(t, ids[a1.ID] && ids[a3.ID]).True()
		for i := 1; i < len(all); i++ {
			gt.Bool(t, all[i-1].ID < all[i].ID).True()
		}

		empty, err := repo.Assessment().ListByFramework(ctx, randomName("none"))
		gt.NoError(t, err).Required()
		gt.Array(t, empty).Length(0)
	})

	t.Run("Update replaces mutable fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Assessment().Create(ctx, &model.Assessment{
			OrganizationName: "Hooli",
			FrameworkType:    randomName("fw"),
			Responses:        model.Responses{"q1": types.ResponsePartial},
			Status:           types.AssessmentInProgress,
		})
		gt.NoError(t, err).Required()

		created.OverallScore = 88
		created.Status = types.AssessmentCompleted
		created.Responses = model.Responses{"q1": types.ResponseCompliant, "q2": types.ResponseCompliant}

		updated, err := repo.Assessment().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.OverallScore).Equal(88)
		gt.Value(t, updated.Status).Equal(types.AssessmentCompleted)
		gt.Value(t, len(updated.Responses)).Equal(2)
		gt.Bool(t, updated.UpdatedAt.Before(created.CreatedAt)).False()

		got, err := repo.Assessment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.OverallScore).Equal(88)
		gt.Bool(t, got.CreatedAt.Equal(updated.CreatedAt)).True()
	})

	t.Run("Update fails for missing assessment", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Assessment().Update(context.Background(), &model.Assessment{
			ID:               1 << 40,
			OrganizationName: "Nobody",
			Status:           types.AssessmentInProgress,
		})
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})
}

func TestAssessmentRepository(t *testing.T) {
	runOnAllBackends(t, runAssessmentRepositoryTest)
}
