// Package rdb stores records in a relational database through database/sql.
// SQLite (modernc.org/sqlite) and PostgreSQL (github.com/lib/pq) are
// supported.
package rdb

import (
	"context"
	"database/sql"
	"embed"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var (
	//go:embed sql/*
	schemaFS embed.FS

	ErrNotFound      = interfaces.ErrNotFound
	ErrAlreadyExists = interfaces.ErrAlreadyExists
)

type RDB struct {
	db         *sql.DB
	assessment *assessmentRepository
	actionItem *actionItemRepository
	framework  *frameworkRepository
}

var _ interfaces.Repository = &RDB{}

// New opens the database and applies the schema. dsn is a file path for
// SQLite and a connection string for PostgreSQL.
func New(ctx context.Context, dialect Dialect, dsn string) (*RDB, error) {
	if dsn == "" {
		return nil, goerr.New("dsn is required", goerr.V("dialect", dialect))
	}

	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite"
	case DialectPostgres:
		driver = "postgres"
	default:
		return nil, goerr.New("unsupported dialect", goerr.V("dialect", dialect))
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("dialect", dialect))
	}
	if dialect == DialectSQLite {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect database", goerr.V("dialect", dialect))
	}

	if err := applySchema(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	q := &querier{db: db, dialect: dialect}
	return &RDB{
		db:         db,
		assessment: &assessmentRepository{q: q},
		actionItem: &actionItemRepository{q: q},
		framework:  &frameworkRepository{q: q},
	}, nil
}

func applySchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ddl, err := schemaFS.ReadFile("sql/" + string(dialect) + ".sql")
	if err != nil {
		return goerr.Wrap(err, "failed to read the schema file", goerr.V("dialect", dialect))
	}

	for _, stmt := range strings.Split(string(ddl), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to create database schema", goerr.V("statement", stmt))
		}
	}
	return nil
}

func (r *RDB) Assessment() interfaces.AssessmentRepository {
	return r.assessment
}

func (r *RDB) ActionItem() interfaces.ActionItemRepository {
	return r.actionItem
}

func (r *RDB) Framework() interfaces.FrameworkRepository {
	return r.framework
}

func (r *RDB) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// querier runs statements written with '?' placeholders against either
// dialect.
type querier struct {
	db      *sql.DB
	dialect Dialect
}

func (q *querier) rebind(query string) string {
	if q.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (q *querier) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.rebind(query), args...)
}

func (q *querier) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.rebind(query), args...)
}

func (q *querier) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.rebind(query), args...)
}

func toUnixNano(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
