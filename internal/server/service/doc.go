// Package service implements the business operations of tracker-server:
// registration, login with per-account throttling, bearer token issue and
// verification, the user directory, and the expense ledger.
//
// Handlers in httpserver translate HTTP requests into these calls and map
// the returned domain errors to status codes.
package service
