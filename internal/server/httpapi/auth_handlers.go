package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/metrics"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/services"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (req registerRequest) credentials() services.Credentials {
	return services.Credentials{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string                `json:"message"`
	User    models.AccountSummary `json:"user"`
	Token   string                `json:"token"`
}

func (a *api) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := a.Auth.Register(r.Context(), req.credentials())
	a.Metrics.AuthAttempt("register", outcome(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: res.Message, User: res.Account, Token: res.Token})
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	a.Metrics.AuthAttempt("login", outcome(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: res.Message, User: res.Account, Token: res.Token})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, common.ErrValidation):
		return metrics.OutcomeRejected
	case errors.Is(err, common.ErrEmailInUse):
		return metrics.OutcomeConflict
	case errors.Is(err, common.ErrInvalidCredentials):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
