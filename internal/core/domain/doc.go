// Package domain defines the core domain models for the expense tracker.
//
// Domain models are pure value objects without IO dependencies. This package
// contains:
//
//   - Credential: email/password pair submitted by the login and signup forms
//   - Form: eager form validation state with change observers
//   - Session and Profile: the client-held session token and the account view
//   - Route and Navigation: admission targets returned to the view layer
//   - Expense and Account: records served by the reference backend
//   - Errors: coded domain errors and the failure taxonomy
package domain
