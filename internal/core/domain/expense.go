package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// MinNotesLength is the shortest accepted expense note, in characters.
const MinNotesLength = 10

// Accepted date layouts for expenses, most specific first.
var expenseDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Expense is one recorded expense as served to clients.
type Expense struct {
	ID        string  `json:"id" yaml:"id"`
	Category  string  `json:"category" yaml:"category"`
	Price     float64 `json:"price" yaml:"price"`
	Notes     string  `json:"notes" yaml:"notes"`
	Date      string  `json:"date" yaml:"date"`
	CreatedAt string  `json:"created_at" yaml:"created_at"`
}

// ExpenseInput is the body of an expense submission.
type ExpenseInput struct {
	Category string   `json:"category"`
	Date     string   `json:"date"`
	Price    *float64 `json:"price"`
	Notes    string   `json:"notes"`
}

// Validate applies the expense form rules.
func (in ExpenseInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Category, validation.Required.Error("category is required")),
		validation.Field(&in.Date,
			validation.Required.Error("date is required"),
			validation.By(dateRule),
		),
		validation.Field(&in.Price,
			validation.NotNil.Error("price is required"),
			validation.Min(0.0).Error("must be no less than 0"),
		),
		validation.Field(&in.Notes,
			validation.Required.Error("notes are required"),
			validation.RuneLength(MinNotesLength, 0).Error("must be at least 10 characters"),
		),
	)
	if err != nil {
		return ErrInvalidExpense.WithDetails(err.Error()).WithCause(err)
	}
	return nil
}

// ParseExpenseDate parses an ISO 8601 date or timestamp. Timestamps without
// a zone are taken as UTC.
func ParseExpenseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range expenseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date format, expected ISO 8601")
}

// ParsePrice accepts a JSON number or a numeric string.
func ParsePrice(v any) (float64, error) {
	switch p := v.(type) {
	case float64:
		return p, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, errors.New("price must be a number")
		}
		return f, nil
	case nil:
		return 0, errors.New("price is required")
	default:
		return 0, errors.New("price must be a number")
	}
}

func dateRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := ParseExpenseDate(s)
	return err
}
