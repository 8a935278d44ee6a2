package rdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
)

const actionItemColumns = `id, assessment_id, title, description, priority, status, due_date, framework_type, created_at, updated_at`

type actionItemRepository struct {
	q *querier
}

func scanActionItem(row scanner) (*model.ActionItem, error) {
	var (
		item                 model.ActionItem
		assessmentID         sql.NullInt64
		dueDate              sql.NullInt64
		priority, status     string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&item.ID, &assessmentID, &item.Title, &item.Description, &priority, &status, &dueDate, &item.FrameworkType, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if assessmentID.Valid {
		id := assessmentID.Int64
		item.AssessmentID = &id
	}
	if dueDate.Valid {
		due := fromUnixNano(dueDate.Int64)
		item.DueDate = &due
	}
	item.Priority = types.Priority(priority)
	item.Status = types.ActionStatus(status)
	item.CreatedAt = fromUnixNano(createdAt)
	item.UpdatedAt = fromUnixNano(updatedAt)
	return &item, nil
}

func nullableArgs(item *model.ActionItem) (sql.NullInt64, sql.NullInt64) {
	var assessmentID, dueDate sql.NullInt64
	if item.AssessmentID != nil {
		assessmentID = sql.NullInt64{Int64: *item.AssessmentID, Valid: true}
	}
	if item.DueDate != nil {
		dueDate = sql.NullInt64{Int64: toUnixNano(*item.DueDate), Valid: true}
	}
	return assessmentID, dueDate
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	assessmentID, dueDate := nullableArgs(item)
	now := toUnixNano(time.Now().UTC())

	var id int64
	err := r.q.queryRow(ctx,
		`INSERT INTO action_items (assessment_id, title, description, priority, status, due_date, framework_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		assessmentID, item.Title, item.Description, item.Priority.String(), item.Status.String(),
		dueDate, item.FrameworkType, now, now,
	).Scan(&id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action item")
	}

	return r.Get(ctx, id)
}

func (r *actionItemRepository) Get(ctx context.Context, id int64) (*model.ActionItem, error) {
	row := r.q.queryRow(ctx, `SELECT `+actionItemColumns+` FROM action_items WHERE id = ?`, id)
	item, err := scanActionItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action item", goerr.V("id", id))
	}
	return item, nil
}

func (r *actionItemRepository) List(ctx context.Context) ([]*model.ActionItem, error) {
	return r.list(ctx, `SELECT `+actionItemColumns+` FROM action_items ORDER BY id`)
}

func (r *actionItemRepository) ListByAssessment(ctx context.Context, assessmentID int64) ([]*model.ActionItem, error) {
	return r.list(ctx, `SELECT `+actionItemColumns+` FROM action_items WHERE assessment_id = ? ORDER BY id`, assessmentID)
}

func (r *actionItemRepository) ListByFramework(ctx context.Context, frameworkType string) ([]*model.ActionItem, error) {
	return r.list(ctx, `SELECT `+actionItemColumns+` FROM action_items WHERE framework_type = ? ORDER BY id`, frameworkType)
}

func (r *actionItemRepository) list(ctx context.Context, query string, args ...any) ([]*model.ActionItem, error) {
	rows, err := r.q.query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query action items")
	}
	defer rows.Close()

	items := make([]*model.ActionItem, 0)
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan action item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate action items")
	}

	return items, nil
}

func (r *actionItemRepository) Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	assessmentID, dueDate := nullableArgs(item)

	result, err := r.q.exec(ctx,
		`UPDATE action_items SET assessment_id = ?, title = ?, description = ?, priority = ?, status = ?, due_date = ?, framework_type = ?, updated_at = ?
		WHERE id = ?`,
		assessmentID, item.Title, item.Description, item.Priority.String(), item.Status.String(),
		dueDate, item.FrameworkType, toUnixNano(time.Now().UTC()),
		item.ID,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V("id", item.ID))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get affected rows", goerr.V("id", item.ID))
	}
	if affected == 0 {
		return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", item.ID))
	}

	return r.Get(ctx, item.ID)
}
