package service

import (
	"context"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// Repository is the storage surface the services depend on. The badger,
// memory and mongo drivers all satisfy it.
type Repository interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	CreateAccount(ctx context.Context, account *domain.Account) error
	AccountByID(ctx context.Context, id string) (*domain.Account, error)
	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)

	CreateExpense(ctx context.Context, expense *domain.ExpenseRecord) error
	ListExpenses(ctx context.Context) ([]*domain.ExpenseRecord, error)
}

// Metrics receives service-level events. *metric.Registry implements it.
type Metrics interface {
	RecordLogin(result string)
	RecordRegistration(result string)
	RecordAuthFailure(reason string)
	IncExpensesCreated()
}

type nopMetrics struct{}

func (nopMetrics) RecordLogin(string)        {}
func (nopMetrics) RecordRegistration(string) {}
func (nopMetrics) RecordAuthFailure(string)  {}
func (nopMetrics) IncExpensesCreated()       {}
