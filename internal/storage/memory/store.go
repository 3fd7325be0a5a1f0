package memory

import (
	"context"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/storage"
	"github.com/yndnr/expense-tracker/pkg/cmap"
)

// Store keeps accounts and expenses in memory.
type Store struct {
	accounts *cmap.Map[string, *domain.Account]
	// Secondary index: normalized email -> account ID
	emails   *cmap.Map[string, string]
	expenses *cmap.Map[string, *domain.ExpenseRecord]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts: cmap.New[string, *domain.Account](),
		emails:   cmap.New[string, string](),
		expenses: cmap.New[string, *domain.ExpenseRecord](),
	}
}

// Name identifies the driver in health reports.
func (s *Store) Name() string {
	return "memory"
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateAccount stores a new account. It returns storage.ErrDuplicate if the
// email or ID is taken.
func (s *Store) CreateAccount(_ context.Context, account *domain.Account) error {
	email := domain.NormalizeEmail(account.Email)
	if !s.emails.SetIfAbsent(email, account.ID) {
		return storage.ErrDuplicate
	}
	if !s.accounts.SetIfAbsent(account.ID, account.Clone()) {
		s.emails.Delete(email)
		return storage.ErrDuplicate
	}
	return nil
}

// AccountByID returns the account with the given ID.
func (s *Store) AccountByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := s.accounts.Get(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return account.Clone(), nil
}

// AccountByEmail returns the account registered under email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	id, ok := s.emails.Get(domain.NormalizeEmail(email))
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.AccountByID(ctx, id)
}

// ListAccounts returns all accounts, newest first.
func (s *Store) ListAccounts(context.Context) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0, s.accounts.Count())
	s.accounts.Range(func(_ string, account *domain.Account) bool {
		accounts = append(accounts, account.Clone())
		return true
	})
	storage.SortAccountsNewestFirst(accounts)
	return accounts, nil
}

// CreateExpense stores a new expense.
func (s *Store) CreateExpense(_ context.Context, expense *domain.ExpenseRecord) error {
	if !s.expenses.SetIfAbsent(expense.ID, expense.Clone()) {
		return storage.ErrDuplicate
	}
	return nil
}

// ListExpenses returns all expenses, newest first.
func (s *Store) ListExpenses(context.Context) ([]*domain.ExpenseRecord, error) {
	expenses := make([]*domain.ExpenseRecord, 0, s.expenses.Count())
	s.expenses.Range(func(_ string, expense *domain.ExpenseRecord) bool {
		expenses = append(expenses, expense.Clone())
		return true
	})
	storage.SortExpensesNewestFirst(expenses)
	return expenses, nil
}

// Counts returns the number of stored accounts and expenses.
func (s *Store) Counts() (accounts, expenses int) {
	return s.accounts.Count(), s.expenses.Count()
}
