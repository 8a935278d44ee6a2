package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/conformity/pkg/domain/interfaces"
	"github.com/secmon-lab/conformity/pkg/repository/firestore"
	"github.com/secmon-lab/conformity/pkg/repository/memory"
	"github.com/secmon-lab/conformity/pkg/repository/rdb"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "conformity.db")
	repo, err := rdb.New(context.Background(), rdb.DialectSQLite, dsn)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	repo, err := rdb.New(context.Background(), rdb.DialectPostgres, dsn)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	// Standard collection names are used so that the migrated indexes apply.
	// Test data isolation is achieved through random framework names.
	repo, err := firestore.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

var backends = map[string]repoFactory{
	"Memory":    newMemoryRepository,
	"SQLite":    newSQLiteRepository,
	"Postgres":  newPostgresRepository,
	"Firestore": newFirestoreRepository,
}

func runOnAllBackends(t *testing.T, run func(t *testing.T, newRepo repoFactory)) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			run(t, factory)
		})
	}
}

func randomName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
