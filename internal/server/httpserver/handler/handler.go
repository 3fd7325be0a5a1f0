package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/server/service"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the tracker API.
type Handler struct {
	accounts *service.AccountService
	expenses *service.ExpenseService
	repo     service.Repository
	logger   logger.Logger
	version  string
	started  time.Time
}

// New creates a Handler.
func New(accounts *service.AccountService, expenses *service.ExpenseService, repo service.Repository, log logger.Logger, version string) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		accounts: accounts,
		expenses: expenses,
		repo:     repo,
		logger:   log,
		version:  version,
		started:  time.Now(),
	}
}

// writeJSON writes v with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError converts err to an {error} response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		de = domain.ErrInternal.WithCause(err)
	}

	status := StatusFor(de.Code)
	message := de.Reason()
	if status >= http.StatusInternalServerError {
		logger.L(r.Context()).Error("request failed", "code", de.Code, "error", err)
		message = "internal server error"
	}

	w.Header().Set("X-Error-Code", de.Code)
	h.writeJSON(w, status, ErrorResponse{Error: message, Code: de.Code})
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.ErrBadRequest.WithDetails("invalid JSON body").WithCause(err)
	}
	return nil
}

// StatusFor maps a domain error code to an HTTP status code.
func StatusFor(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "TR-AUTH-401"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "TR-ARG-"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "TR-NET-"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
