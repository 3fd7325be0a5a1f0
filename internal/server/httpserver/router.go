package httpserver

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/yndnr/expense-tracker/internal/server/httpserver/handler"
	"github.com/yndnr/expense-tracker/internal/server/service"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
	"github.com/yndnr/expense-tracker/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Accounts *service.AccountService
	Expenses *service.ExpenseService
	Repo     service.Repository

	// Metrics records per-route request metrics and serves /metrics.
	Metrics *metric.Registry

	Logger logger.Logger

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string

	// Version is reported by /health.
	Version string
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Order: RequestID -> Recover -> AccessLog -> CORS -> router ->
// Instrument -> [Auth] -> handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	reg := cfg.Metrics
	if reg == nil {
		reg = metric.NewRegistry()
	}

	h := handler.New(cfg.Accounts, cfg.Expenses, cfg.Repo, log, cfg.Version)
	auth := Auth(cfg.Accounts)

	router := httprouter.New()
	router.HandleOPTIONS = false

	route := func(method, path string, fn http.HandlerFunc, mws ...Middleware) {
		mws = append([]Middleware{Instrument(reg, path)}, mws...)
		router.Handler(method, path, Chain(fn, mws...))
	}

	// Public endpoints
	route(http.MethodPost, "/login", h.Login)
	route(http.MethodPost, "/user-info", h.Register)
	route(http.MethodGet, "/health", h.Health)
	router.Handler(http.MethodGet, "/metrics", reg.Handler())

	// Bearer-protected endpoints
	route(http.MethodGet, "/me", h.Me, auth)
	route(http.MethodGet, "/user-info", h.ListUsers, auth)
	route(http.MethodGet, "/expenses", h.ListExpenses, auth)
	route(http.MethodPost, "/expenses", h.CreateExpense, auth)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONStatus(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONStatus(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return Chain(router,
		RequestID(log),
		Recover(),
		AccessLog(),
		CORS(cfg.CORSAllowedOrigins),
	)
}

func writeJSONStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}` + "\n"))
}
