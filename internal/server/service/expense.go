package service

import (
	"context"
	"strings"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// ExpenseSubmission is an expense as received from a client. Price may be
// a JSON number or a numeric string.
type ExpenseSubmission struct {
	Category string `json:"category"`
	Date     any    `json:"date"`
	Price    any    `json:"price"`
	Notes    string `json:"notes"`
}

// ExpenseService records and lists expenses.
type ExpenseService struct {
	repo    Repository
	metrics Metrics
	logger  logger.Logger
}

// NewExpenseService creates an ExpenseService. m and l may be nil.
func NewExpenseService(repo Repository, m Metrics, l logger.Logger) *ExpenseService {
	if m == nil {
		m = nopMetrics{}
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &ExpenseService{repo: repo, metrics: m, logger: l}
}

// Create validates in and stores it for ownerID.
func (s *ExpenseService) Create(ctx context.Context, ownerID string, in ExpenseSubmission) (string, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" || in.Date == nil || in.Price == nil {
		return "", domain.ErrInvalidExpense.WithDetails("category, date, and price are required")
	}

	dateStr, ok := in.Date.(string)
	if !ok {
		return "", domain.ErrInvalidExpense.WithDetails("Invalid date format. Use ISO format.")
	}
	date, err := domain.ParseExpenseDate(dateStr)
	if err != nil {
		return "", domain.ErrInvalidExpense.WithDetails("Invalid date format. Use ISO format.").WithCause(err)
	}

	price, err := domain.ParsePrice(in.Price)
	if err != nil {
		return "", domain.ErrInvalidExpense.WithDetails("price must be a number").WithCause(err)
	}

	record, err := domain.NewExpenseRecord(ownerID, category, price, in.Notes, date)
	if err != nil {
		return "", err
	}
	if err := s.repo.CreateExpense(ctx, record); err != nil {
		return "", domain.ErrStorage.WithCause(err)
	}

	s.metrics.IncExpensesCreated()
	s.logger.Debug("expense recorded", "expense_id", record.ID, "user_id", ownerID)
	return record.ID, nil
}

// List returns every expense, newest first.
func (s *ExpenseService) List(ctx context.Context) ([]domain.Expense, error) {
	records, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	out := make([]domain.Expense, 0, len(records))
	for _, r := range records {
		out = append(out, r.View())
	}
	return out, nil
}
