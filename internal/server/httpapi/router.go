// Package httpapi exposes the account services over a JSON REST API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/metrics"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/services"
)

// Authenticator is implemented by services.AuthService.
type Authenticator interface {
	Register(ctx context.Context, c services.Credentials) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	CreateAccount(ctx context.Context, c services.Credentials) (*models.AccountSummary, error)
}

// AccountDirectory is implemented by services.Directory.
type AccountDirectory interface {
	List(ctx context.Context) ([]models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Pinger reports store reachability for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators of the router. Health may be nil.
type Deps struct {
	Auth     Authenticator
	Accounts AccountDirectory
	Tokens   TokenVerifier
	Metrics  *metrics.Metrics
	Health   Pinger
	Logger   logging.Logger
}

type api struct {
	Deps
}

// NewRouter builds the chi router with every route and middleware.
func NewRouter(d Deps) http.Handler {
	a := &api{Deps: d}
	a.Logger = d.Logger.With("module", "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.observe)

	r.Get("/healthz", a.healthz)
	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.register)
			r.Post("/login", a.login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(a.requireBearer)
			r.Get("/", a.listAccounts)
			r.Post("/", a.createAccount)
			r.Get("/{id}", a.getAccount)
			r.Put("/{id}", a.updateAccount)
			r.Delete("/{id}", a.deleteAccount)
		})
	})

	return r
}

func (a *api) healthz(w http.ResponseWriter, r *http.Request) {
	if a.Health != nil {
		if err := a.Health.PingContext(r.Context()); err != nil {
			a.Logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
