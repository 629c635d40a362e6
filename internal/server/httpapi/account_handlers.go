package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/accountd/internal/server/models"
)

type updateRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (a *api) listAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := a.Accounts.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	out := make([]models.AccountSummary, 0, len(list))
	for i := range list {
		out = append(out, list[i].Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := a.Accounts.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Summary())
}

func (a *api) createAccount(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := a.Auth.CreateAccount(r.Context(), req.credentials())
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+summary.ID)
	writeJSON(w, http.StatusCreated, summary)
}

func (a *api) updateAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID != "" && req.ID != id {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id in body does not match path"})
		return
	}

	_, err := a.Accounts.Update(r.Context(), id, models.AccountUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := a.Accounts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
