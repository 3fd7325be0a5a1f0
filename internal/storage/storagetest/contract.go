// Package storagetest holds the behavior every tracker-server storage
// driver must show, as a reusable test suite.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/storage"
)

// Repository is the driver surface under test.
type Repository interface {
	Name() string
	Ping(ctx context.Context) error
	CreateAccount(ctx context.Context, account *domain.Account) error
	AccountByID(ctx context.Context, id string) (*domain.Account, error)
	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	CreateExpense(ctx context.Context, expense *domain.ExpenseRecord) error
	ListExpenses(ctx context.Context) ([]*domain.ExpenseRecord, error)
}

// Run exercises a fresh repository returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) Repository) {
	t.Run("Ping", func(t *testing.T) {
		repo := open(t)
		assert.NoError(t, repo.Ping(context.Background()))
		assert.NotEmpty(t, repo.Name())
	})
	t.Run("AccountRoundTrip", func(t *testing.T) { testAccountRoundTrip(t, open(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, open(t)) })
	t.Run("ConcurrentRegistration", func(t *testing.T) { testConcurrentRegistration(t, open(t)) })
	t.Run("AccountsNewestFirst", func(t *testing.T) { testAccountsNewestFirst(t, open(t)) })
	t.Run("ExpensesNewestFirst", func(t *testing.T) { testExpensesNewestFirst(t, open(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, open(t)) })
}

// NewAccount builds an account with a fresh ID.
func NewAccount(email string, createdAt time.Time) *domain.Account {
	return &domain.Account{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=2$c2FsdA$aGFzaA",
		CreatedAt:    createdAt.UTC().Truncate(time.Millisecond),
	}
}

func testAccountRoundTrip(t *testing.T, repo Repository) {
	ctx := context.Background()
	account := NewAccount("ada@example.com", time.Now())
	require.NoError(t, repo.CreateAccount(ctx, account))

	byID, err := repo.AccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, byID.Email)
	assert.Equal(t, account.PasswordHash, byID.PasswordHash)
	assert.True(t, account.CreatedAt.Equal(byID.CreatedAt), "created_at %v != %v", byID.CreatedAt, account.CreatedAt)

	byEmail, err := repo.AccountByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
}

func testDuplicateEmail(t *testing.T, repo Repository) {
	ctx := context.Background()
	require.NoError(t, repo.CreateAccount(ctx, NewAccount("ada@example.com", time.Now())))

	err := repo.CreateAccount(ctx, NewAccount("ada@example.com", time.Now()))
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func testConcurrentRegistration(t *testing.T, repo Repository) {
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.CreateAccount(ctx, NewAccount("race@example.com", time.Now()))
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, storage.ErrDuplicate)
		}
	}
	assert.Equal(t, 1, created)
}

func testAccountsNewestFirst(t *testing.T, repo Repository) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		account := NewAccount(fmt.Sprintf("user%d@example.com", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.CreateAccount(ctx, account))
	}

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "user2@example.com", accounts[0].Email)
	assert.Equal(t, "user0@example.com", accounts[2].Email)
}

func testExpensesNewestFirst(t *testing.T, repo Repository) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)
	for i, category := range []string{"Food", "Travel", "Books"} {
		expense := &domain.ExpenseRecord{
			ID:        ulid.Make().String(),
			OwnerID:   "owner",
			Category:  category,
			Price:     float64(i) + 0.5,
			Notes:     "weekly groceries run",
			Date:      base,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.CreateExpense(ctx, expense))
	}

	expenses, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "Books", expenses[0].Category)
	assert.Equal(t, 2.5, expenses[0].Price)
	assert.Equal(t, "Food", expenses[2].Category)
	assert.True(t, base.Equal(expenses[0].Date))
}

func testNotFound(t *testing.T, repo Repository) {
	ctx := context.Background()

	_, err := repo.AccountByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.AccountByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	accounts, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
