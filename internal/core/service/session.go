package service

import (
	"sync"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/storage/local"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// TokenKey is the fixed storage key of the session token.
const TokenKey = "token"

// SessionStore owns the persisted session token. Presence of a non-empty
// token is the sole admission signal; it is never parsed or expired here.
type SessionStore struct {
	mu      sync.RWMutex
	backend local.Store
	logger  logger.Logger
}

// NewSessionStore creates a SessionStore over backend.
func NewSessionStore(backend local.Store, log logger.Logger) *SessionStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionStore{
		backend: backend,
		logger:  log,
	}
}

// SetToken stores token, replacing any prior value.
func (s *SessionStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(TokenKey, token); err != nil {
		return domain.ErrStorage.WithDetails("persist session").WithCause(err)
	}
	return nil
}

// ClearToken removes the stored token. Clearing an empty store is a no-op.
func (s *SessionStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(TokenKey); err != nil {
		return domain.ErrStorage.WithDetails("clear session").WithCause(err)
	}
	return nil
}

// Token returns the stored token. An unreadable store counts as absent.
func (s *SessionStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok, err := s.backend.Get(TokenKey)
	if err != nil {
		s.logger.Warn("session store unreadable", "error", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// IsAuthenticated reports whether a non-empty token is stored.
func (s *SessionStore) IsAuthenticated() bool {
	return s.Session().Authenticated()
}

// Session returns the stored session, or nil when there is none.
func (s *SessionStore) Session() *domain.Session {
	token, ok := s.Token()
	if !ok {
		return nil
	}
	return &domain.Session{Token: token}
}
