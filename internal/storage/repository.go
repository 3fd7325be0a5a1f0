package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// Key layout of KVRepository.
const (
	accountPrefix = "account/id/"
	emailPrefix   = "account/email/"
	expensePrefix = "expense/"
)

// KVRepository stores accounts and expenses as JSON documents in a KVEngine.
// Emails are indexed under their normalized form; the index entry and the
// account are written in one Insert so a taken email is never overwritten.
type KVRepository struct {
	kv KVEngine
}

// NewKVRepository returns a repository over kv. The repository owns kv and
// closes it on Close.
func NewKVRepository(kv KVEngine) *KVRepository {
	return &KVRepository{kv: kv}
}

// Name identifies the driver in health reports.
func (r *KVRepository) Name() string {
	return "badger"
}

// Ping reports whether the engine is usable.
func (r *KVRepository) Ping(ctx context.Context) error {
	_, err := r.kv.Stats(ctx)
	return err
}

// Close closes the underlying engine.
func (r *KVRepository) Close() error {
	return r.kv.Close()
}

// CreateAccount stores a new account. It returns ErrDuplicate if the email
// or ID is taken.
func (r *KVRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	err = r.kv.Insert(ctx,
		KV{Key: emailKey(account.Email), Value: []byte(account.ID)},
		KV{Key: []byte(accountPrefix + account.ID), Value: data},
	)
	if errors.Is(err, ErrKeyExists) {
		return ErrDuplicate
	}
	return err
}

// AccountByID returns the account with the given ID.
func (r *KVRepository) AccountByID(ctx context.Context, id string) (*domain.Account, error) {
	data, err := r.kv.Get(ctx, []byte(accountPrefix+id))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var account domain.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", id, err)
	}
	return &account, nil
}

// AccountByEmail returns the account registered under email.
func (r *KVRepository) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	id, err := r.kv.Get(ctx, emailKey(email))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.AccountByID(ctx, string(id))
}

// ListAccounts returns all accounts, newest first.
func (r *KVRepository) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	var (
		accounts  []*domain.Account
		decodeErr error
	)
	err := r.kv.Scan(ctx, []byte(accountPrefix), func(key, value []byte) bool {
		var account domain.Account
		if err := json.Unmarshal(value, &account); err != nil {
			decodeErr = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		accounts = append(accounts, &account)
		return true
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	SortAccountsNewestFirst(accounts)
	return accounts, nil
}

// CreateExpense stores a new expense.
func (r *KVRepository) CreateExpense(ctx context.Context, expense *domain.ExpenseRecord) error {
	data, err := json.Marshal(expense)
	if err != nil {
		return fmt.Errorf("encode expense: %w", err)
	}

	err = r.kv.Insert(ctx, KV{Key: []byte(expensePrefix + expense.ID), Value: data})
	if errors.Is(err, ErrKeyExists) {
		return ErrDuplicate
	}
	return err
}

// ListExpenses returns all expenses, newest first.
func (r *KVRepository) ListExpenses(ctx context.Context) ([]*domain.ExpenseRecord, error) {
	var (
		expenses  []*domain.ExpenseRecord
		decodeErr error
	)
	err := r.kv.Scan(ctx, []byte(expensePrefix), func(key, value []byte) bool {
		var expense domain.ExpenseRecord
		if err := json.Unmarshal(value, &expense); err != nil {
			decodeErr = fmt.Errorf("decode %s: %w", key, err)
			return false
		}
		expenses = append(expenses, &expense)
		return true
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	SortExpensesNewestFirst(expenses)
	return expenses, nil
}

func emailKey(email string) []byte {
	return []byte(emailPrefix + domain.NormalizeEmail(email))
}
