package storage

import (
	"errors"
	"sort"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// Record errors shared by all drivers.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// SortAccountsNewestFirst orders accounts by creation time, newest first.
// Ties are broken by ID so the order is stable.
func SortAccountsNewestFirst(accounts []*domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
		}
		return accounts[i].ID > accounts[j].ID
	})
}

// SortExpensesNewestFirst orders expenses by creation time, newest first.
func SortExpensesNewestFirst(expenses []*domain.ExpenseRecord) {
	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].CreatedAt.Equal(expenses[j].CreatedAt) {
			return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
		}
		return expenses[i].ID > expenses[j].ID
	})
}
