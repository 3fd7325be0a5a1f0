package service

import (
	"context"
	"net/http"

	"github.com/yndnr/expense-tracker/internal/cli/connection"
	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// RegistrationGateway creates accounts and lists registered users. It never
// touches the session.
type RegistrationGateway struct {
	api    API
	logger logger.Logger
}

// NewRegistrationGateway creates a RegistrationGateway.
func NewRegistrationGateway(api API, log logger.Logger) *RegistrationGateway {
	if log == nil {
		log = logger.NewNop()
	}
	return &RegistrationGateway{api: api, logger: log}
}

// CreateAccount registers cred. Any 2xx counts as accepted, whatever the body.
func (g *RegistrationGateway) CreateAccount(ctx context.Context, cred domain.Credential) (*domain.Accepted, error) {
	resp, err := g.api.Post(ctx, pathUserInfo, cred)
	if err != nil {
		return nil, transportError(err)
	}

	var accepted domain.Accepted
	err = connection.ParseResponse(resp, &accepted)
	if err == nil {
		g.logger.Info("account created", "email", cred.Email, "id", accepted.ID)
		return &accepted, nil
	}

	se, ok := connection.AsStatusError(err)
	if !ok {
		// 2xx with an unreadable body.
		g.logger.Debug("account created, response body ignored", "error", err)
		return &domain.Accepted{}, nil
	}

	g.logger.Info("account creation rejected", "email", cred.Email, "status", se.StatusCode)
	if se.StatusCode == http.StatusConflict {
		return nil, domain.ErrAccountExists.WithDetails(se.Message).WithCause(err)
	}
	return nil, domain.ErrRegistrationRejected.WithDetails(se.Message).WithCause(err)
}

// ListUsers returns the registered users, newest first.
func (g *RegistrationGateway) ListUsers(ctx context.Context) ([]domain.Profile, error) {
	resp, err := g.api.Get(ctx, pathUserInfo)
	if err != nil {
		return nil, transportError(err)
	}

	var users []domain.Profile
	if err := connection.ParseResponse(resp, &users); err != nil {
		return nil, authenticatedError(err)
	}
	return users, nil
}
