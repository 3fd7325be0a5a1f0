package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/storage"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
	"github.com/yndnr/expense-tracker/pkg/password"
)

// Login results reported to Metrics.
const (
	LoginSuccess   = "success"
	LoginInvalid   = "invalid"
	LoginThrottled = "throttled"
)

// Registration results reported to Metrics.
const (
	RegistrationCreated   = "created"
	RegistrationDuplicate = "duplicate"
)

// AccountService handles registration, login and account lookups.
type AccountService struct {
	repo    Repository
	tokens  *TokenIssuer
	limiter *LoginLimiter
	params  password.Params
	metrics Metrics
	logger  logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AccountOption configures an AccountService.
type AccountOption func(*AccountService)

// WithPasswordParams sets the argon2id cost used for new hashes.
func WithPasswordParams(p password.Params) AccountOption {
	return func(s *AccountService) { s.params = p }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) AccountOption {
	return func(s *AccountService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) AccountOption {
	return func(s *AccountService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewAccountService creates an AccountService.
func NewAccountService(repo Repository, tokens *TokenIssuer, limiter *LoginLimiter, opts ...AccountOption) *AccountService {
	s := &AccountService{
		repo:    repo,
		tokens:  tokens,
		limiter: limiter,
		params:  password.DefaultParams,
		metrics: nopMetrics{},
		logger:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account for cred. Emails are unique after
// normalization.
func (s *AccountService) Register(ctx context.Context, cred domain.Credential) (*domain.Account, error) {
	if strings.TrimSpace(cred.Email) == "" || cred.Password == "" {
		return nil, domain.ErrMissingCredentials
	}

	hash, err := password.HashWithParams(cred.Password, s.params)
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}

	account, err := domain.NewAccount(cred.Email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			s.metrics.RecordRegistration(RegistrationDuplicate)
			return nil, domain.ErrAccountExists
		}
		return nil, domain.ErrStorage.WithCause(err)
	}

	s.metrics.RecordRegistration(RegistrationCreated)
	s.logger.Info("account registered", "user_id", account.ID)
	return account, nil
}

// Login verifies cred and issues an access token.
func (s *AccountService) Login(ctx context.Context, cred domain.Credential) (string, error) {
	if strings.TrimSpace(cred.Email) == "" || cred.Password == "" {
		return "", domain.ErrMissingCredentials
	}

	if s.limiter != nil && !s.limiter.Allow(cred.Email) {
		s.metrics.RecordLogin(LoginThrottled)
		s.logger.Warn("login throttled", "email", domain.NormalizeEmail(cred.Email))
		return "", domain.ErrRateLimited
	}

	account, err := s.repo.AccountByEmail(ctx, cred.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return "", domain.ErrStorage.WithCause(err)
		}
		// Unknown emails cost one hash check too.
		password.Verify(cred.Password, s.dummy())
		s.metrics.RecordLogin(LoginInvalid)
		return "", domain.ErrInvalidCredentials
	}

	if !password.Verify(cred.Password, account.PasswordHash) {
		s.metrics.RecordLogin(LoginInvalid)
		return "", domain.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(account)
	if err != nil {
		return "", err
	}

	if s.limiter != nil {
		s.limiter.Reset(cred.Email)
	}
	s.metrics.RecordLogin(LoginSuccess)
	s.logger.Info("login succeeded", "user_id", account.ID)
	return token, nil
}

// Authenticate verifies a bearer token and returns its claims.
func (s *AccountService) Authenticate(raw string) (*Claims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenMissing):
			s.metrics.RecordAuthFailure("missing")
		case errors.Is(err, domain.ErrTokenExpired):
			s.metrics.RecordAuthFailure("expired")
		default:
			s.metrics.RecordAuthFailure("invalid")
		}
		return nil, err
	}
	return claims, nil
}

// Profile returns the account with the given id.
func (s *AccountService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	account, err := s.repo.AccountByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Profile{}, domain.ErrAccountNotFound
		}
		return domain.Profile{}, domain.ErrStorage.WithCause(err)
	}
	return account.Profile(), nil
}

// ListUsers returns every account, newest first.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.Profile, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	profiles := make([]domain.Profile, 0, len(accounts))
	for _, a := range accounts {
		profiles = append(profiles, a.Profile())
	}
	return profiles, nil
}

func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		// The hash only needs to parse; its contents are never matched.
		if h, err := password.HashWithParams("unused-password", s.params); err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
