package service

import (
	"context"
	"net/http"

	"github.com/yndnr/expense-tracker/internal/cli/connection"
	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// ExpenseClient lists and records expenses for the current session.
type ExpenseClient struct {
	api    API
	logger logger.Logger
}

// NewExpenseClient creates an ExpenseClient.
func NewExpenseClient(api API, log logger.Logger) *ExpenseClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &ExpenseClient{api: api, logger: log}
}

// List returns the session owner's expenses, newest first.
func (c *ExpenseClient) List(ctx context.Context) ([]domain.Expense, error) {
	resp, err := c.api.Get(ctx, pathExpenses)
	if err != nil {
		return nil, transportError(err)
	}

	var expenses []domain.Expense
	if err := connection.ParseResponse(resp, &expenses); err != nil {
		return nil, authenticatedError(err)
	}
	return expenses, nil
}

// Create validates in locally and submits it.
func (c *ExpenseClient) Create(ctx context.Context, in domain.ExpenseInput) (*domain.Accepted, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.api.Post(ctx, pathExpenses, in)
	if err != nil {
		return nil, transportError(err)
	}

	var accepted domain.Accepted
	if err := connection.ParseResponse(resp, &accepted); err != nil {
		if se, ok := connection.AsStatusError(err); ok && se.StatusCode == http.StatusBadRequest {
			return nil, domain.ErrInvalidExpense.WithDetails(se.Message).WithCause(err)
		}
		return nil, authenticatedError(err)
	}

	c.logger.Info("expense recorded", "id", accepted.ID, "category", in.Category)
	return &accepted, nil
}
