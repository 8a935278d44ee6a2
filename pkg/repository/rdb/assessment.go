package rdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

const assessmentColumns = `id, organization_name, framework_type, overall_score, responses, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

type assessmentRepository struct {
	q *querier
}

func scanAssessment(row scanner) (*model.Assessment, error) {
	var (
		a                    model.Assessment
		responses            []byte
		status               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&a.ID, &a.OrganizationName, &a.FrameworkType, &a.OverallScore, &responses, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	a.Responses = model.Responses{}
	if err := json.Unmarshal(responses, &a.Responses); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal responses", goerr.V("id", a.ID))
	}
	a.Status = types.AssessmentStatus(status)
	a.CreatedAt = fromUnixNano(createdAt)
	a.UpdatedAt = fromUnixNano(updatedAt)
	return &a, nil
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	responses, err := json.Marshal(assessment.Responses.Clone())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal responses")
	}

	now := toUnixNano(time.Now().UTC())
	var id int64
	err = r.q.queryRow(ctx,
		`INSERT INTO assessments (organization_name, framework_type, overall_score, responses, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		assessment.OrganizationName, assessment.FrameworkType, assessment.OverallScore,
		string(responses), assessment.Status.String(), now, now,
	).Scan(&id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	return r.Get(ctx, id)
}

func (r *assessmentRepository) Get(ctx context.Context, id int64) (*model.Assessment, error) {
	row := r.q.queryRow(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE id = ?`, id)
	assessment, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}
	return assessment, nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	return r.list(ctx, `SELECT `+assessmentColumns+` FROM assessments ORDER BY id`)
}

func (r *assessmentRepository) ListByFramework(ctx context.Context, frameworkType string) ([]*model.Assessment, error) {
	return r.list(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE framework_type = ? ORDER BY id`, frameworkType)
}

func (r *assessmentRepository) list(ctx context.Context, query string, args ...any) ([]*model.Assessment, error) {
	rows, err := r.q.query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query assessments")
	}
	defer rows.Close()

	assessments := make([]*model.Assessment, 0)
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan assessment")
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate assessments")
	}

	return assessments, nil
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	responses, err := json.Marshal(assessment.Responses.Clone())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal responses", goerr.V("id", assessment.ID))
	}

	result, err := r.q.exec(ctx,
		`UPDATE assessments SET organization_name = ?, framework_type = ?, overall_score = ?, responses = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		assessment.OrganizationName, assessment.FrameworkType, assessment.OverallScore,
		string(responses), assessment.Status.String(), toUnixNano(time.Now().UTC()),
		assessment.ID,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", assessment.ID))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get affected rows", goerr.V("id", assessment.ID))
	}
	if affected == 0 {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", assessment.ID))
	}

	return r.Get(ctx, assessment.ID)
}
