package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{ID: "usr-1", Email: "ada@example.com", CreatedAt: time.Now().UTC()}
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer([]byte(testSecret), time.Hour)

	raw, expiresAt, err := issuer.Issue(testAccount())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer([]byte(testSecret), time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }

	raw, _, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Token expired", de.Reason())
}

func TestTokenIssuer_Invalid(t *testing.T) {
	issuer := NewTokenIssuer([]byte(testSecret), time.Hour)
	other := NewTokenIssuer([]byte("another-secret-of-32-bytes-long!"), time.Hour)

	foreign, _, err := other.Issue(testAccount())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "usr-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "usr-1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", foreign},
		{"alg none", none},
		{"no expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.raw)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestTokenIssuer_Missing(t *testing.T) {
	issuer := NewTokenIssuer([]byte(testSecret), time.Hour)

	_, err := issuer.Verify("")
	assert.ErrorIs(t, err, domain.ErrTokenMissing)
}
