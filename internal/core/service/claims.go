package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// DecodeClaims reads the claims of a session token without verifying its
// signature. The result is for display only; admission never depends on it.
func DecodeClaims(token string) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	out := &domain.TokenClaims{}
	if v, ok := claims["user_id"].(string); ok {
		out.UserID = v
	} else if sub, err := claims.GetSubject(); err == nil {
		out.UserID = sub
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC().Truncate(time.Second)
		out.ExpiresAt = &t
	}
	return out, nil
}
