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

const frameworkColumns = `id, name, description, version, questions, scorers, created_at`

type frameworkRepository struct {
	q *querier
}

func scanFramework(row scanner) (*model.Framework, error) {
	var (
		f                  model.Framework
		questions, scorers []byte
		createdAt          int64
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Version, &questions, &scorers, &createdAt); err != nil {
		return nil, err
	}

	f.Questions = []model.Question{}
	if err := json.Unmarshal(questions, &f.Questions); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal questions", goerr.V("name", f.Name))
	}
	f.Scorers = []types.ScorerKind{}
	if err := json.Unmarshal(scorers, &f.Scorers); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal scorers", goerr.V("name", f.Name))
	}
	f.CreatedAt = fromUnixNano(createdAt)
	return &f, nil
}

func (r *frameworkRepository) Create(ctx context.Context, framework *model.Framework) (*model.Framework, error) {
	if _, err := r.Get(ctx, framework.Name); err == nil {
		return nil, goerr.Wrap(ErrAlreadyExists, "framework already exists", goerr.V("name", framework.Name))
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	c := framework.Copy()
	questions, err := json.Marshal(c.Questions)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal questions", goerr.V("name", framework.Name))
	}
	scorers, err := json.Marshal(c.Scorers)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal scorers", goerr.V("name", framework.Name))
	}

	_, err = r.q.exec(ctx,
		`INSERT INTO frameworks (name, description, version, questions, scorers, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.Version, string(questions), string(scorers), toUnixNano(time.Now().UTC()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create framework", goerr.V("name", framework.Name))
	}

	return r.Get(ctx, framework.Name)
}

func (r *frameworkRepository) Get(ctx context.Context, name string) (*model.Framework, error) {
	row := r.q.queryRow(ctx, `SELECT `+frameworkColumns+` FROM frameworks WHERE name = ?`, name)
	framework, err := scanFramework(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "framework not found", goerr.V("name", name))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("name", name))
	}
	return framework, nil
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.Framework, error) {
	rows, err := r.q.query(ctx, `SELECT `+frameworkColumns+` FROM frameworks ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query frameworks")
	}
	defer rows.Close()

	frameworks := make([]*model.Framework, 0)
	for rows.Next() {
		framework, err := scanFramework(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan framework")
		}
		frameworks = append(frameworks, framework)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate frameworks")
	}

	return frameworks, nil
}
