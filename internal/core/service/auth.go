package service

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/yndnr/expense-tracker/internal/cli/connection"
	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// AuthGateway talks to the backend's login and profile endpoints and is the
// only writer of the SessionStore.
type AuthGateway struct {
	api    API
	store  *SessionStore
	logger logger.Logger
	flight singleflight.Group
}

// NewAuthGateway creates an AuthGateway.
func NewAuthGateway(api API, store *SessionStore, log logger.Logger) *AuthGateway {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthGateway{
		api:    api,
		store:  store,
		logger: log,
	}
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges cred for a session token and persists it. Concurrent calls
// with the same credential share one request. On any failure the store is
// left untouched.
func (g *AuthGateway) Login(ctx context.Context, cred domain.Credential) (*domain.Session, error) {
	session, shared, err := shareCall(ctx, &g.flight, flightKey(cred), func(ctx context.Context) (*domain.Session, error) {
		return g.login(ctx, cred)
	})
	if shared {
		g.logger.Debug("login collapsed with in-flight request", "email", cred.Email)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (g *AuthGateway) login(ctx context.Context, cred domain.Credential) (*domain.Session, error) {
	resp, err := g.api.Post(ctx, pathLogin, cred)
	if err != nil {
		g.logger.Warn("login request failed", "email", cred.Email, "error", err)
		return nil, transportError(err)
	}

	var body loginResponse
	if err := connection.ParseResponse(resp, &body); err != nil {
		details := "malformed response body"
		if se, ok := connection.AsStatusError(err); ok {
			details = se.Message
		}
		g.logger.Info("login rejected", "email", cred.Email, "error", err)
		return nil, domain.ErrLoginRejected.WithDetails(details).WithCause(err)
	}
	if body.AccessToken == "" {
		return nil, domain.ErrLoginRejected.WithDetails("response carried no access token")
	}

	if err := g.store.SetToken(body.AccessToken); err != nil {
		return nil, err
	}

	g.logger.Info("login succeeded", "email", cred.Email)
	return &domain.Session{Token: body.AccessToken}, nil
}

// Logout discards the local session. There is no server-side revocation.
func (g *AuthGateway) Logout() {
	if err := g.store.ClearToken(); err != nil {
		g.logger.Warn("clear session failed", "error", err)
		return
	}
	g.logger.Debug("session cleared")
}

// FetchProfile returns the account behind the current session. It never
// changes session state, even on 401.
func (g *AuthGateway) FetchProfile(ctx context.Context) (*domain.Profile, error) {
	resp, err := g.api.Get(ctx, pathMe)
	if err != nil {
		return nil, transportError(err)
	}

	var profile domain.Profile
	if err := connection.ParseResponse(resp, &profile); err != nil {
		return nil, authenticatedError(err)
	}
	return &profile, nil
}
