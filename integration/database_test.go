//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/siri/internal/scorestore"
	"github.com/huangsam/siri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSiriWithMySQL tests the siri CLI and score store with a MySQL backend.
func TestSiriWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "siri",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/siri", host, port.Port())
	verifyBackend(t, schema.MySQLBackend, connStr)
}

// TestSiriWithPostgres tests the siri CLI and score store with a PostgreSQL backend.
func TestSiriWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	verifyBackend(t, schema.PostgreSQLBackend, connStr)
}

// verifyBackend records runs through the CLI and reads them back through the CLI and the store.
func verifyBackend(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	repo := sampleRepo(t)
	env := []string{
		"SIRI_STORE_BACKEND=" + string(backend),
		"SIRI_STORE_DB_CONNECT=" + connStr,
	}

	_, err := runSiri(t, repo.Root, env, "history", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runSiri(t, repo.Root, env, "--limit", "5", "--verbose")
		require.NoError(t, err)
	}

	out, err := runSiri(t, repo.Root, env, "history", "list", "--output", "json")
	require.NoError(t, err)
	var runs []schema.ScoreRunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].RunID, runs[1].RunID)
	assert.Equal(t, 16, runs[0].TotalLines)
	assert.Equal(t, repo.Root, runs[0].RepoPath)

	_, err = runSiri(t, repo.Root, env, "history", "status")
	require.NoError(t, err)

	// The store can be used directly as well.
	store, err := scorestore.NewScoreStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.RecordRun(context.Background(), schema.ScoreReport{
		RepoPath:      "/direct",
		Ref:           "HEAD",
		UnknownPolicy: schema.BucketPolicy,
		Authors: []schema.RankedAuthor{
			{Rank: 1, Author: "Alice", Share: 100, AuthorStats: schema.AuthorStats{Lines: 3, Code: 3, Commits: 1, Known: true}},
		},
		TotalLines:  3,
		SiriPercent: 100,
	})
	require.NoError(t, err)
	assert.Greater(t, runID, runs[0].RunID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Positive(t, status.TableSizes["siri_author_scores"])

	// Roll everything back and migrate again.
	_, err = runSiri(t, repo.Root, env, "history", "migrate", "--target-version", "0")
	require.NoError(t, err)
	_, err = runSiri(t, repo.Root, env, "history", "migrate")
	require.NoError(t, err)
}
