// Package service provides the client-side session and admission services.
//
// Services hold the application logic between the view layer (CLI commands
// and the interactive shell) and the backend. They depend on small
// interfaces for transport and storage so they can be exercised with test
// doubles.
//
// This package contains:
//
//   - SessionStore: the persisted session token
//   - AuthGateway: login, logout and profile retrieval
//   - RegistrationGateway: account creation and the user directory
//   - RegistrationOrchestrator: the create-then-login signup flow
//   - LoginFlow: form-gated login with navigation intent
//   - RouteGuard: admission decisions for protected routes
//   - ExpenseClient: expense listing and submission
//
// Failures are converted to *domain.DomainError values at this boundary;
// none of them is fatal to the process.
package service
