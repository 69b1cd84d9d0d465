package migration_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sboussekeyt/spring-batch-rs/component/migration"
	"github.com/sboussekeyt/spring-batch-rs/engine"
	"github.com/sboussekeyt/spring-batch-rs/model"
)

func TestTasklet_Execute_AppliesPendingMigrations(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	migrationFS := fstest.MapFS{
		"migrations/0001_create_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT);")},
		"migrations/0001_create_widgets.down.sql": {Data: []byte("DROP TABLE widgets;")},
	}

	tasklet := migration.New("apply-schema", db, "sqlite", migrationFS, "migrations")
	se := model.NewStepExecution("apply-schema")

	status, err := tasklet.Execute(context.Background(), se.View())
	require.NoError(t, err)
	assert.Equal(t, engine.Finished, status)

	_, err = db.Exec("INSERT INTO widgets (id, name) VALUES (1, 'gear')")
	assert.NoError(t, err)
}

func TestTasklet_Execute_SecondRunIsNoOp(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	migrationFS := fstest.MapFS{
		"migrations/0001_create_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"migrations/0001_create_widgets.down.sql": {Data: []byte("DROP TABLE widgets;")},
	}

	tasklet := migration.New("apply-schema", db, "sqlite", migrationFS, "migrations")
	se := model.NewStepExecution("apply-schema")

	_, err = tasklet.Execute(context.Background(), se.View())
	require.NoError(t, err)

	status, err := tasklet.Execute(context.Background(), se.View())
	require.NoError(t, err)
	assert.Equal(t, engine.Finished, status)
}
