package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/accountd/internal/clockx"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testEpoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// newTestDirectory backs a Directory with a migrated SQLite file.
func newTestDirectory(t *testing.T, clock clockx.Clock) (*Directory, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	return NewDirectory(db, rm, clock, logging.Discard()), db
}

type testEnv struct {
	dir    *Directory
	auth   *AuthService
	issuer *auth.TokenIssuer
	clock  *clockx.Fixed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := clockx.NewFixed(testEpoch)
	dir, _ := newTestDirectory(t, clock)
	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		SecretKey: testSecret,
		Issuer:    "ProjectReturn",
		Audience:  "ProjectReturnUsers",
	}, clock)
	require.NoError(t, err)

	return &testEnv{
		dir:    dir,
		auth:   NewAuthService(dir, auth.NewBcryptHasher(bcrypt.MinCost), issuer, logging.Discard()),
		issuer: issuer,
		clock:  clock,
	}
}
