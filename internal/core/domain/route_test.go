package domain

import (
	"testing"
	"time"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		in        string
		want      Route
		protected bool
		known     bool
	}{
		{"", RouteHome, false, true},
		{"login", RouteLogin, false, true},
		{"/signup", RouteSignup, false, true},
		{"personal-info", RoutePersonalInfo, true, true},
		{"/nowhere", Route("/nowhere"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := ParseRoute(tt.in)
			if r != tt.want {
				t.Errorf("ParseRoute(%q) = %q, want %q", tt.in, r, tt.want)
			}
			if r.Protected() != tt.protected {
				t.Errorf("Protected() = %v", r.Protected())
			}
			if r.Known() != tt.known {
				t.Errorf("Known() = %v", r.Known())
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		nav    Navigation
		target Route
		name   string
	}{
		{NavStay, "", "stay"},
		{NavGoProtected, RoutePersonalInfo, "go-protected"},
		{NavGoLogin, RouteLogin, "go-login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.nav.Target(); got != tt.target {
				t.Errorf("Target() = %q, want %q", got, tt.target)
			}
			if got := tt.nav.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestSession_Authenticated(t *testing.T) {
	var nilSession *Session
	if nilSession.Authenticated() {
		t.Error("nil session should not be authenticated")
	}
	if (&Session{}).Authenticated() {
		t.Error("empty token should not be authenticated")
	}
	if !(&Session{Token: "x"}).Authenticated() {
		t.Error("non-empty token should be authenticated")
	}
}

func TestTokenClaims_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (&TokenClaims{}).Expired(now) {
		t.Error("claims without expiry should not be expired")
	}
	if !(&TokenClaims{ExpiresAt: &past}).Expired(now) {
		t.Error("past expiry should be expired")
	}
	if (&TokenClaims{ExpiresAt: &future}).Expired(now) {
		t.Error("future expiry should not be expired")
	}
}
