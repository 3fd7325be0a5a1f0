package service

import "github.com/yndnr/expense-tracker/internal/core/domain"

// SessionReader reports whether a session is held. *SessionStore satisfies it.
type SessionReader interface {
	IsAuthenticated() bool
}

// Admission is a guard decision. Redirect is set only when Allowed is false;
// executing it is the caller's job.
type Admission struct {
	Allowed  bool
	Redirect domain.Route
}

// RouteGuard decides admission to protected routes. It reads the session on
// every call and never touches the network.
type RouteGuard struct {
	sessions SessionReader
}

// NewRouteGuard creates a RouteGuard.
func NewRouteGuard(sessions SessionReader) *RouteGuard {
	return &RouteGuard{sessions: sessions}
}

// CanEnter decides admission to the protected area.
func (g *RouteGuard) CanEnter() Admission {
	if g.sessions.IsAuthenticated() {
		return Admission{Allowed: true}
	}
	return Admission{Allowed: false, Redirect: domain.RouteLogin}
}

// Check decides admission to route. Unprotected routes are always allowed.
func (g *RouteGuard) Check(route domain.Route) Admission {
	if !route.Protected() {
		return Admission{Allowed: true}
	}
	return g.CanEnter()
}
