package service

import (
	"context"
	"errors"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// User-facing login failure texts.
const (
	MsgLoginFailed       = "Login failed"
	MsgServerUnreachable = "Unable to reach the server. Please try again."
)

// LoginOutcome is the result of one LoginFlow.Submit.
type LoginOutcome struct {
	Validation domain.ValidationState
	// Submitted is false when the form was invalid and no request was made.
	Submitted  bool
	Reason     string
	Err        error
	Navigation domain.Navigation
	Session    *domain.Session
}

// LoginFlow gates a login request on form validity and turns the result into
// a navigation intent.
type LoginFlow struct {
	auth   Authenticator
	logger logger.Logger
}

// NewLoginFlow creates a LoginFlow.
func NewLoginFlow(auth Authenticator, log logger.Logger) *LoginFlow {
	if log == nil {
		log = logger.NewNop()
	}
	return &LoginFlow{auth: auth, logger: log}
}

// Submit logs in with cred when the form is valid.
func (f *LoginFlow) Submit(ctx context.Context, cred domain.Credential) LoginOutcome {
	validation := domain.Evaluate(cred.Email, cred.Password)
	if !validation.FormValid {
		return LoginOutcome{
			Validation: validation,
			Err:        cred.Validate(),
			Navigation: domain.NavStay,
		}
	}

	session, err := f.auth.Login(ctx, cred)
	if err != nil {
		reason := MsgLoginFailed
		if domain.KindOf(err) == domain.KindTransport {
			reason = MsgServerUnreachable
		}
		return LoginOutcome{
			Validation: validation,
			Submitted:  true,
			Reason:     reason,
			Err:        err,
			Navigation: domain.NavStay,
		}
	}

	return LoginOutcome{
		Validation: validation,
		Submitted:  true,
		Navigation: domain.NavGoProtected,
		Session:    session,
	}
}

func asDomainError(err error) (*domain.DomainError, bool) {
	var de *domain.DomainError
	ok := errors.As(err, &de)
	return de, ok
}
