package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var errBoom = errors.New("boom")

func openNotes(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func noteCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n))
	return n
}

func insertNote(ctx context.Context, tx DBTX, body string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notes(body) VALUES (?)`, body)
	return err
}

func TestWithTx(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(ctx context.Context, tx DBTX) error
		wantErr error
		want    int
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, tx DBTX) error {
				return insertNote(ctx, tx, "kept")
			},
			want: 1,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertNote(ctx, tx, "dropped"); err != nil {
					return err
				}
				return errBoom
			},
			wantErr: errBoom,
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openNotes(t)
			err := WithTx(context.Background(), db, nil, tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, noteCount(t, db))
		})
	}
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openNotes(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insertNote(ctx, tx, "lost"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, noteCount(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := openNotes(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.False(t, called)
}

func TestWithTxResult(t *testing.T) {
	t.Run("value after commit", func(t *testing.T) {
		db := openNotes(t)
		n, err := WithTxResult(context.Background(), db, nil, func(ctx context.Context, tx DBTX) (int, error) {
			for _, b := range []string{"a", "b"} {
				if err := insertNote(ctx, tx, b); err != nil {
					return 0, err
				}
			}
			var n int
			err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n)
			return n, err
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, noteCount(t, db))
	})

	t.Run("zero value on error", func(t *testing.T) {
		db := openNotes(t)
		s, err := WithTxResult(context.Background(), db, nil, func(ctx context.Context, tx DBTX) (string, error) {
			_ = insertNote(ctx, tx, "x")
			return "partial", errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, s)
		assert.Equal(t, 0, noteCount(t, db))
	})
}
