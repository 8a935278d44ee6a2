package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/repository/firestore"
	"github.com/secmon-lab/conformity/pkg/repository/memory"
	"github.com/secmon-lab/conformity/pkg/repository/rdb"
	"github.com/secmon-lab/conformity/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	sqlitePath       string
	databaseDSN      string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, firestore, sqlite or postgres)",
			Category:    "Repository",
			Value:       "memory",
			Sources:     cli.EnvVars("CONFORMITY_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("CONFORMITY_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("CONFORMITY_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for Firestore collection names",
			Category:    "Repository",
			Sources:     cli.EnvVars("CONFORMITY_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file (sqlite backend)",
			Category:    "Repository",
			Value:       "conformity.db",
			Sources:     cli.EnvVars("CONFORMITY_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "database-dsn",
			Usage:       "PostgreSQL connection string (postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("CONFORMITY_DATABASE_DSN"),
			Destination: &r.databaseDSN,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore_project_id", r.projectID),
		slog.String("firestore_database_id", r.databaseID),
		slog.String("sqlite_path", r.sqlitePath),
		slog.Int("database_dsn.len", len(r.databaseDSN)),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the Firestore collection prefix
func (r *Repository) CollectionPrefix() string {
	return r.collectionPrefix
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := logging.From(ctx)

	switch r.backend {
	case "firestore":
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logger.Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
			"collection_prefix", r.collectionPrefix,
		)
		return repo, nil

	case "sqlite":
		repo, err := rdb.New(ctx, rdb.DialectSQLite, r.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite repository", goerr.V("path", r.sqlitePath))
		}
		logger.Info("Using SQLite repository", "path", r.sqlitePath)
		return repo, nil

	case "postgres":
		if r.databaseDSN == "" {
			return nil, goerr.New("database-dsn is required when using postgres backend")
		}
		repo, err := rdb.New(ctx, rdb.DialectPostgres, r.databaseDSN)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository")
		}
		logger.Info("Using PostgreSQL repository")
		return repo, nil

	case "memory":
		logger.Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
