package repl

import (
	"testing"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/core/service"
)

// fakeSession is a toggleable session flag.
type fakeSession struct {
	authenticated bool
}

func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }

func TestNavigator_Open(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		route         domain.Route
		wantAllowed   bool
		wantRoute     domain.Route
	}{
		{"public route", false, domain.RouteSignup, true, domain.RouteSignup},
		{"protected with session", true, domain.RoutePersonalInfo, true, domain.RoutePersonalInfo},
		{"protected without session redirects", false, domain.RoutePersonalInfo, false, domain.RouteLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := NewNavigator(service.NewRouteGuard(&fakeSession{authenticated: tt.authenticated}), domain.RouteHome)

			admission := nav.Open(tt.route)
			if admission.Allowed != tt.wantAllowed {
				t.Errorf("Open(%s).Allowed = %v, want %v", tt.route, admission.Allowed, tt.wantAllowed)
			}
			if nav.Current() != tt.wantRoute {
				t.Errorf("Current() = %s, want %s", nav.Current(), tt.wantRoute)
			}
		})
	}
}

func TestNavigator_ReadsSessionEveryTime(t *testing.T) {
	session := &fakeSession{}
	nav := NewNavigator(service.NewRouteGuard(session), domain.RouteHome)

	if nav.Open(domain.RoutePersonalInfo).Allowed {
		t.Fatal("Open() allowed without a session")
	}

	session.authenticated = true
	if !nav.Open(domain.RoutePersonalInfo).Allowed {
		t.Fatal("Open() denied after the session appeared")
	}

	session.authenticated = false
	if nav.Open(domain.RoutePersonalInfo).Allowed {
		t.Fatal("Open() allowed after the session was cleared")
	}
}

func TestNavigator_Follow(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		nav           domain.Navigation
		wantRoute     domain.Route
	}{
		{"stay keeps route", true, domain.NavStay, domain.RouteSignup},
		{"go login", false, domain.NavGoLogin, domain.RouteLogin},
		{"go protected with session", true, domain.NavGoProtected, domain.RoutePersonalInfo},
		{"go protected without session is redirected", false, domain.NavGoProtected, domain.RouteLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNavigator(service.NewRouteGuard(&fakeSession{authenticated: tt.authenticated}), domain.RouteSignup)
			n.Follow(tt.nav)
			if n.Current() != tt.wantRoute {
				t.Errorf("Current() = %s, want %s", n.Current(), tt.wantRoute)
			}
		})
	}
}

func TestNavigator_OnChange(t *testing.T) {
	nav := NewNavigator(service.NewRouteGuard(&fakeSession{}), domain.RouteHome)

	var moves [][2]domain.Route
	nav.OnChange(func(from, to domain.Route) {
		moves = append(moves, [2]domain.Route{from, to})
	})

	nav.Open(domain.RouteLogin)
	nav.Open(domain.RouteLogin)
	nav.Open(domain.RoutePersonalInfo)

	if len(moves) != 1 {
		t.Fatalf("observer called %d times, want 1: %v", len(moves), moves)
	}
	if moves[0] != [2]domain.Route{domain.RouteHome, domain.RouteLogin} {
		t.Errorf("move = %v", moves[0])
	}
}
