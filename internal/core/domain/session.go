package domain

import "time"

// Session is the client-held proof of a successful login. Presence of a
// non-empty token is the only admission signal; its contents are opaque.
type Session struct {
	Token string `json:"access_token" yaml:"token"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Profile is the account view returned by /me and /user-info.
type Profile struct {
	ID        string `json:"id" yaml:"id"`
	Email     string `json:"email" yaml:"email"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// Accepted acknowledges a created resource.
type Accepted struct {
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// TokenClaims are the display-only claims decoded from a session token.
// They are never used for admission.
type TokenClaims struct {
	UserID    string     `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Email     string     `json:"email,omitempty" yaml:"email,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Expired reports whether the claims carry an expiry before now.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
