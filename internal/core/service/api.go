package service

import (
	"context"
	"net/http"

	"github.com/yndnr/expense-tracker/internal/cli/connection"
	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// API is the transport the gateways use. *connection.HTTPClient satisfies it.
type API interface {
	Get(ctx context.Context, path string) (*http.Response, error)
	Post(ctx context.Context, path string, body any) (*http.Response, error)
}

var _ API = (*connection.HTTPClient)(nil)

// Backend paths.
const (
	pathLogin    = "/login"
	pathMe       = "/me"
	pathUserInfo = "/user-info"
	pathExpenses = "/expenses"
)

// transportError normalises a request error. The HTTP client already
// reports ErrTransport; anything else (e.g. a body that failed to encode)
// is local and unexpected.
func transportError(err error) error {
	if domain.IsDomainError(err, "") {
		return err
	}
	return domain.ErrInternal.WithDetails("build request").WithCause(err)
}

// authenticatedError maps a failed response of a bearer-protected call.
func authenticatedError(err error) error {
	if se, ok := connection.AsStatusError(err); ok {
		if se.StatusCode == http.StatusUnauthorized {
			return domain.ErrUnauthorized.WithDetails(se.Message).WithCause(err)
		}
		return domain.ErrUnexpectedResponse.WithDetails(se.Error()).WithCause(err)
	}
	return domain.ErrUnexpectedResponse.WithDetails("malformed response body").WithCause(err)
}
