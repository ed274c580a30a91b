package db_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mlluizdevtech/linkhub/internal/db"
)

func TestMigrate_LogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	conn, err := sqlx.Open("sqlite", "file:migrate_logs?mode=memory&cache=shared")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(conn, "sqlite3"))

	out := buf.String()
	assert.Contains(t, out, `"component":"migrate"`)
	assert.Contains(t, out, "00001_create_users.sql")
	assert.Contains(t, out, "00002_create_links.sql")
}

func TestMigrate_UnknownDriver(t *testing.T) {
	conn, err := sqlx.Open("sqlite", "file:migrate_unknown?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	err = db.Migrate(conn, "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
