package handler

import (
	"net/http"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/server/service"
)

// ListExpenses handles GET /expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense handles POST /expenses.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	claims := service.ClaimsFromContext(r.Context())
	if claims == nil {
		h.writeError(w, r, domain.ErrTokenMissing.WithDetails("Authorization header missing"))
		return
	}

	var req service.ExpenseSubmission
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.expenses.Create(r.Context(), claims.UserID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}
