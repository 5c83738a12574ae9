package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"graphqlpal/internal/core/config"
	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/data/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsSchema = `
type Query {
  user(id: ID!): User
  users: [User!]!
}

type User {
  id: ID!
  name: String
  email: String
}
`

func writeStatsInputs(t *testing.T, documents string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	docsPath := filepath.Join(dir, "queries.graphql")
	schemaPath := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(docsPath, []byte(documents), 0o644))
	require.NoError(t, os.WriteFile(schemaPath, []byte(statsSchema), 0o644))
	return docsPath, schemaPath
}

func TestSchemaStats(t *testing.T) {
	docsPath, schemaPath := writeStatsInputs(t, `
query A { user(id: "1") { id name } }
query B { users { ...UserFields } }
fragment UserFields on User { id }
`)
	a := newTestApp(t, nil)

	res, err := a.SchemaStats(context.Background(), StatsRequest{DocumentsPath: docsPath, SchemaPath: schemaPath})
	require.NoError(t, err)
	assert.Empty(t, res.RunID)

	usage := res.Report.Usage
	count, ok := usage.Count("User", "id")
	require.True(t, ok)
	assert.Equal(t, 2, count)
	count, _ = usage.Count("Query", "users")
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"User.email"}, usage.Unused())
	assert.Equal(t, 2, res.Report.Operations)
	assert.Empty(t, res.Report.Errors)
}

func TestSchemaStats_FatalInputs(t *testing.T) {
	docsPath, schemaPath := writeStatsInputs(t, "query A { user(id: 1) { id } }")
	a := newTestApp(t, nil)
	ctx := context.Background()

	_, err := a.SchemaStats(ctx, StatsRequest{DocumentsPath: docsPath + ".missing", SchemaPath: schemaPath})
	assert.True(t, errors.IsCode(err, errors.CodeIOError), "missing documents: %v", err)

	_, err = a.SchemaStats(ctx, StatsRequest{DocumentsPath: docsPath, SchemaPath: schemaPath + ".missing"})
	assert.True(t, errors.IsCode(err, errors.CodeIOError), "missing schema: %v", err)

	require.NoError(t, os.WriteFile(docsPath, []byte("query {"), 0o644))
	_, err = a.SchemaStats(ctx, StatsRequest{DocumentsPath: docsPath, SchemaPath: schemaPath})
	assert.True(t, errors.IsCode(err, errors.CodeParseError), "bad documents: %v", err)

	require.NoError(t, os.WriteFile(schemaPath, []byte("type {"), 0o644))
	_, err = a.SchemaStats(ctx, StatsRequest{DocumentsPath: docsPath, SchemaPath: schemaPath})
	assert.True(t, errors.IsCode(err, errors.CodeParseError), "bad schema: %v", err)
}

func TestSchemaStats_RecordsHistory(t *testing.T) {
	docsPath, schemaPath := writeStatsInputs(t, `query A { user(id: "1") { id } }`)
	dbPath := filepath.Join(t.TempDir(), "usage.db")
	a := newTestApp(t, func(c *config.Config) {
		c.History.Path = dbPath
		c.History.Project = "web"
	})
	require.NotNil(t, a.HistoryStore())
	ctx := context.Background()

	first, err := a.SchemaStats(ctx, StatsRequest{DocumentsPath: docsPath, SchemaPath: schemaPath})
	require.NoError(t, err)
	require.NotEmpty(t, first.RunID)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, os.WriteFile(docsPath, []byte(`query A { user(id: "1") { id name email } }`), 0o644))
	second, err := a.SchemaStats(ctx, StatsRequest{DocumentsPath: docsPath, SchemaPath: schemaPath})
	require.NoError(t, err)

	counts, err := a.RunCounts(first.RunID)
	require.NoError(t, err)
	require.Len(t, counts, 5)
	assert.Equal(t, history.FieldCount{Type: "Query", Field: "user", Signature: "User", Count: 1}, counts[0])
	assert.Equal(t, history.FieldCount{Type: "User", Field: "id", Signature: "ID!", Count: 1}, counts[3])

	trend, err := a.UsageTrend("", 0)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, first.RunID, trend[0].ID)
	assert.Equal(t, second.RunID, trend[1].ID)
	assert.Equal(t, "web", trend[1].Project)
	assert.Equal(t, 3, trend[0].Unused)
	assert.Equal(t, 1, trend[1].Unused)
	assert.Equal(t, -2, trend[1].DeltaUnused)
	assert.Equal(t, 2, trend[1].DeltaSelections)

	other, err := a.UsageTrend("mobile", 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUsageTrend_WithoutHistory(t *testing.T) {
	a := newTestApp(t, nil)
	_, err := a.UsageTrend("", 10)
	assert.Error(t, err)
	_, err = a.RunCounts("x")
	assert.Error(t, err)
}

type failingStore struct {
	history.Store
	saved int
}

func (s *failingStore) SaveRun(history.Run) (string, error) {
	s.saved++
	return "", assert.AnError
}

func TestSchemaStats_HistoryFailureIsNotFatal(t *testing.T) {
	docsPath, schemaPath := writeStatsInputs(t, `query A { users { id } }`)
	a := newTestApp(t, nil)
	store := &failingStore{}
	a.SetHistoryStore(store)

	res, err := a.SchemaStats(context.Background(), StatsRequest{DocumentsPath: docsPath, SchemaPath: schemaPath})
	require.NoError(t, err)
	assert.Empty(t, res.RunID)
	assert.Equal(t, 1, store.saved)
}
