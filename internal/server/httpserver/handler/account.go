package handler

import (
	"net/http"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/server/service"
)

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), domain.Credential{Email: req.Email, Password: req.Password})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

// Register handles POST /user-info.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.accounts.Register(r.Context(), domain.Credential{Email: req.Email, Password: req.Password})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, CreatedResponse{ID: account.ID})
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := service.ClaimsFromContext(r.Context())
	if claims == nil {
		h.writeError(w, r, domain.ErrTokenMissing.WithDetails("Authorization header missing"))
		return
	}

	profile, err := h.accounts.Profile(r.Context(), claims.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// ListUsers handles GET /user-info.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}
