package service

import (
	"sync"
	"testing"
	"time"

	"github.com/yndnr/expense-tracker/internal/storage/memory"
	"github.com/yndnr/expense-tracker/pkg/password"
)

var fastParams = password.Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

const testSecret = "0123456789abcdef0123456789abcdef"

type recordingMetrics struct {
	mu            sync.Mutex
	logins        map[string]int
	registrations map[string]int
	authFailures  map[string]int
	expenses      int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		logins:        make(map[string]int),
		registrations: make(map[string]int),
		authFailures:  make(map[string]int),
	}
}

func (m *recordingMetrics) RecordLogin(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins[result]++
}

func (m *recordingMetrics) RecordRegistration(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[result]++
}

func (m *recordingMetrics) RecordAuthFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authFailures[reason]++
}

func (m *recordingMetrics) IncExpensesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses++
}

type fixture struct {
	repo     *memory.Store
	tokens   *TokenIssuer
	limiter  *LoginLimiter
	metrics  *recordingMetrics
	accounts *AccountService
	expenses *ExpenseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:    memory.New(),
		tokens:  NewTokenIssuer([]byte(testSecret), time.Hour),
		limiter: NewLoginLimiter(1, 3),
		metrics: newRecordingMetrics(),
	}
	f.accounts = NewAccountService(f.repo, f.tokens, f.limiter,
		WithPasswordParams(fastParams),
		WithMetrics(f.metrics),
	)
	f.expenses = NewExpenseService(f.repo, f.metrics, nil)
	t.Cleanup(func() { _ = f.repo.Close() })
	return f
}
