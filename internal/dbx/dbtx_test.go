package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE dose_logs (medication_id TEXT NOT NULL, date TEXT NOT NULL, PRIMARY KEY (medication_id, date))`)
	require.NoError(t, err)
	return db
}

func countLogs(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM dose_logs`).Scan(&n))
	return n
}

func TestWithTx_Commits(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO dose_logs VALUES ('m1', '2024-02-01')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countLogs(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO dose_logs VALUES ('m1', '2024-02-01')`)
		require.NoError(t, err)
		_, err = tx.ExecContext(ctx, `INSERT INTO dose_logs VALUES ('m1', '2024-02-01')`)
		return err
	})
	require.Error(t, err)
	require.Equal(t, 0, countLogs(t, db))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := setupDB(t)

	require.Panics(t, func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO dose_logs VALUES ('m1', '2024-02-01')`)
			require.NoError(t, err)
			panic("boom")
		})
	})
	require.Equal(t, 0, countLogs(t, db))
}

func TestWithTx_NilAndClosedDB(t *testing.T) {
	err := WithTx(context.Background(), nil, nil, func(context.Context, DBTX) error { return nil })
	require.True(t, errors.Is(err, ErrNilDB))

	db := setupDB(t)
	require.NoError(t, db.Close())
	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	require.Error(t, err)
}
