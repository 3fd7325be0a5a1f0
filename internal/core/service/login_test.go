package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

func TestLoginFlow_Submit(t *testing.T) {
	tests := []struct {
		name      string
		cred      domain.Credential
		authErr   error
		submitted bool
		nav       domain.Navigation
		reason    string
	}{
		{"invalid form", domain.Credential{Email: "nope", Password: "123456"}, nil, false, domain.NavStay, ""},
		{"success", validCred, nil, true, domain.NavGoProtected, ""},
		{"rejected", validCred, domain.ErrLoginRejected, true, domain.NavStay, MsgLoginFailed},
		{"transport", validCred, domain.ErrTransport, true, domain.NavStay, MsgServerUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{session: &domain.Session{Token: "t"}, err: tt.authErr}
			out := NewLoginFlow(auth, nil).Submit(context.Background(), tt.cred)

			assert.Equal(t, tt.submitted, out.Submitted)
			assert.Equal(t, tt.nav, out.Navigation)
			assert.Equal(t, tt.reason, out.Reason)
			if tt.submitted {
				assert.Equal(t, int32(1), auth.calls.Load())
			} else {
				assert.Zero(t, auth.calls.Load())
				assert.Equal(t, domain.KindLocalValidation, domain.KindOf(out.Err))
			}
		})
	}
}
