package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/accountd/internal/clockx"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/metrics"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountd/internal/server/services"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testAPI struct {
	handler http.Handler
	metrics *metrics.Metrics
	issuer  *auth.TokenIssuer
	clock   *clockx.Fixed
	db      *sql.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	clock := clockx.NewFixed(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{SecretKey: testSecret, Issuer: "ProjectReturn", Audience: "ProjectReturnUsers"}, clock)
	require.NoError(t, err)

	dir := services.NewDirectory(db, rm, clock, logging.Discard())
	authSvc := services.NewAuthService(dir, auth.NewBcryptHasher(bcrypt.MinCost), issuer, logging.Discard())
	m := metrics.New()

	return &testAPI{
		handler: NewRouter(Deps{
			Auth:     authSvc,
			Accounts: dir,
			Tokens:   issuer,
			Metrics:  m,
			Health:   db,
			Logger:   logging.Discard(),
		}),
		metrics: m,
		issuer:  issuer,
		clock:   clock,
		db:      db,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// registerAnn registers a fixed account and returns its token and id.
func (a *testAPI) registerAnn(t *testing.T) (string, string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Ann", "lastName": "Lee", "email": "Ann.Lee@EXAMPLE.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.Token, res.User.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
