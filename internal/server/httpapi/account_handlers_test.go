package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/accountd/internal/server/models"
)

func newRequest(t *testing.T, method, path string, body io.Reader) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, body)
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestAccounts_CRUD(t *testing.T) {
	api := newTestAPI(t)
	token, annID := api.registerAnn(t)

	rec := api.do(t, http.MethodPost, "/api/users", token, map[string]string{
		"firstName": "Bob", "lastName": "Ray", "email": "bob@x.io", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bob := decode[models.AccountSummary](t, rec)
	assert.Equal(t, "/api/users/"+bob.ID, rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), "token")

	rec = api.do(t, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]models.AccountSummary](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, annID, list[0].ID)
	assert.Equal(t, bob.ID, list[1].ID)

	rec = api.do(t, http.MethodGet, "/api/users/"+bob.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob@x.io", decode[models.AccountSummary](t, rec).Email)

	rec = api.do(t, http.MethodPut, "/api/users/"+bob.ID, token, map[string]string{
		"id": bob.ID, "firstName": "Robert", "lastName": "Ray", "email": "Robert@X.io",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/users/"+bob.ID, token, nil)
	got := decode[models.AccountSummary](t, rec)
	assert.Equal(t, "Robert", got.FirstName)
	assert.Equal(t, "robert@x.io", got.Email)
	assert.NotNil(t, got.UpdatedAt)

	rec = api.do(t, http.MethodDelete, "/api/users/"+bob.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/users/"+bob.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccounts_NotFound(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerAnn(t)
	missing := uuid.NewString()

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/users/"+missing, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/users/not-a-uuid", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, "/api/users/"+missing, token, nil).Code)

	rec := api.do(t, http.MethodPut, "/api/users/"+missing, token, map[string]string{
		"firstName": "X", "lastName": "Y", "email": "x@y.io",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccounts_UpdateIDMismatch(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.registerAnn(t)

	rec := api.do(t, http.MethodPut, "/api/users/"+id, token, map[string]string{
		"id": uuid.NewString(), "firstName": "Ann", "lastName": "Lee", "email": "ann.lee@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccounts_UpdateConflict(t *testing.T) {
	api := newTestAPI(t)
	token, annID := api.registerAnn(t)

	rec := api.do(t, http.MethodPost, "/api/users", token, map[string]string{
		"firstName": "Bob", "lastName": "Ray", "email": "bob@x.io", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/users/"+annID, token, map[string]string{
		"firstName": "Ann", "lastName": "Lee", "email": "BOB@x.io",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAccounts_CreateUsesRegistrationPolicy(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.registerAnn(t)

	rec := api.do(t, http.MethodPost, "/api/users", token, map[string]string{
		"firstName": "Bob", "lastName": "Ray", "email": "bob@x.io", "password": "alllowercase1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.NoError(t, api.db.Close())
	rec = api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.registerAnn(t)

	rec := api.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `accountd_http_requests_total{method="POST",route="/api/auth/register",status="200"} 1`)
	assert.Contains(t, body, "accountd_http_request_duration_seconds")
}
