// Package httpserver provides the HTTP server of tracker-server.
//
// Routes are served by httprouter:
//
//	POST /login       issue an access token
//	POST /user-info   register an account
//	GET  /user-info   list accounts (bearer)
//	GET  /me          current account (bearer)
//	GET  /expenses    list expenses (bearer)
//	POST /expenses    record an expense (bearer)
//	GET  /health      liveness and storage status
//	GET  /metrics     Prometheus metrics
package httpserver
