package domain

import (
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the forms accept, in characters.
const MinPasswordLength = 6

// EmailValid reports whether email passes the loose form heuristic: it must
// contain both '@' and '.'. This is not an address validator.
func EmailValid(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// PasswordValid reports whether password has at least MinPasswordLength
// characters.
func PasswordValid(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// ValidationState is the derived validity of a credential form.
type ValidationState struct {
	EmailValid    bool `json:"email_valid"`
	PasswordValid bool `json:"password_valid"`
	FormValid     bool `json:"form_valid"`
}

// Evaluate computes the validation state for the given inputs.
func Evaluate(email, password string) ValidationState {
	e := EmailValid(email)
	p := PasswordValid(password)
	return ValidationState{
		EmailValid:    e,
		PasswordValid: p,
		FormValid:     e && p,
	}
}

// Form holds the raw inputs of a login or signup form. The validation state
// is recomputed on every change and pushed to registered observers.
//
// Form is not safe for concurrent use.
type Form struct {
	email     string
	password  string
	state     ValidationState
	observers []func(ValidationState)
}

// NewForm creates an empty form.
func NewForm() *Form {
	f := &Form{}
	f.state = Evaluate("", "")
	return f
}

// OnChange registers fn to be called after every recomputation.
func (f *Form) OnChange(fn func(ValidationState)) {
	f.observers = append(f.observers, fn)
}

// SetEmail updates the email input.
func (f *Form) SetEmail(email string) {
	f.email = email
	f.recompute()
}

// SetPassword updates the password input.
func (f *Form) SetPassword(password string) {
	f.password = password
	f.recompute()
}

// Reset clears both inputs.
func (f *Form) Reset() {
	f.email = ""
	f.password = ""
	f.recompute()
}

// Email returns the current email input.
func (f *Form) Email() string { return f.email }

// State returns the current validation state.
func (f *Form) State() ValidationState { return f.state }

// Credential returns the inputs as a credential for submission.
func (f *Form) Credential() Credential {
	return Credential{Email: f.email, Password: f.password}
}

func (f *Form) recompute() {
	f.state = Evaluate(f.email, f.password)
	for _, fn := range f.observers {
		fn(f.state)
	}
}
