package domain

import (
	"errors"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Credential is the email/password pair submitted by the login and signup
// forms. It is held only for the duration of one submission.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credential with the same predicates the form uses and
// returns ErrInvalidForm carrying per-field messages.
func (c Credential) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Email,
			validation.Required.Error("email is required"),
			validation.By(emailRule),
		),
		validation.Field(&c.Password,
			validation.Required.Error("password is required"),
			validation.By(passwordRule),
		),
	)
	if err != nil {
		return ErrInvalidForm.WithDetails(err.Error()).WithCause(err)
	}
	return nil
}

// LogValue keeps the password out of structured logs.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(slog.String("email", c.Email))
}

// FieldErrors extracts per-field messages from a validation failure.
// It returns nil when err carries no field detail.
func FieldErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}
	return out
}

func emailRule(value interface{}) error {
	s, _ := value.(string)
	if !EmailValid(s) {
		return errors.New("must contain '@' and '.'")
	}
	return nil
}

func passwordRule(value interface{}) error {
	s, _ := value.(string)
	if !PasswordValid(s) {
		return errors.New("must be at least 6 characters")
	}
	return nil
}
