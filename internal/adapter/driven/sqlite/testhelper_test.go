package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// memoryDSN names a shared-cache in-memory database after the running test so
// parallel tests never see each other's reviews.
func memoryDSN(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", url.PathEscape(t.Name()))
}

func openMemory(t *testing.T, dsn string, maxConns int) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", dsn)
	require.NoError(t, err, "open in-memory reviews db")
	conn.SetMaxOpenConns(maxConns)
	require.NoError(t, conn.PingContext(context.Background()), "ping in-memory reviews db")
	return conn
}

// setupTestDB returns a migrated DB whose writer and reader share one
// in-memory reviews database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := memoryDSN(t)
	db := &DB{Writer: openMemory(t, dsn, 1), Reader: openMemory(t, dsn, 4), path: dsn}
	t.Cleanup(func() { _ = db.Close() })

	_, err := RunMigrations(db.Writer)
	require.NoError(t, err, "migrate reviews schema")

	return db
}
