package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID prefixes for backend records.
const (
	AccountIDPrefix = "usr-"
	ExpenseIDPrefix = "exp-"
)

// Account is a registered user as stored by the reference backend.
type Account struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"password_hash" bson:"password"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// NewAccount creates an account for email with an already-hashed password.
func NewAccount(email, passwordHash string) (*Account, error) {
	id, err := newID(AccountIDPrefix)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:           id,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Clone returns a copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// Profile returns the public view of the account.
func (a *Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		Email:     a.Email,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// ExpenseRecord is an expense as stored by the reference backend.
type ExpenseRecord struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Category  string    `json:"category" bson:"category"`
	Price     float64   `json:"price" bson:"price"`
	Notes     string    `json:"notes" bson:"notes"`
	Date      time.Time `json:"date" bson:"date"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewExpenseRecord creates a record owned by ownerID.
func NewExpenseRecord(ownerID, category string, price float64, notes string, date time.Time) (*ExpenseRecord, error) {
	id, err := newID(ExpenseIDPrefix)
	if err != nil {
		return nil, err
	}
	return &ExpenseRecord{
		ID:        id,
		OwnerID:   ownerID,
		Category:  category,
		Price:     price,
		Notes:     notes,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Clone returns a copy of the record.
func (r *ExpenseRecord) Clone() *ExpenseRecord {
	c := *r
	return &c
}

// View returns the client-facing form of the record.
func (r *ExpenseRecord) View() Expense {
	return Expense{
		ID:        r.ID,
		Category:  r.Category,
		Price:     r.Price,
		Notes:     r.Notes,
		Date:      r.Date.Format(time.RFC3339),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// NormalizeEmail lower-cases and trims an email for use as a lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newID returns prefix followed by a lower-case ULID.
func newID(prefix string) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return prefix + strings.ToLower(id.String()), nil
}
