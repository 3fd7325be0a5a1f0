package service

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// SignupState is a state of the registration flow.
type SignupState int

// Registration flow states.
const (
	StateIdle SignupState = iota
	StateValidating
	StateCreatingAccount
	StateAccountCreated
	StateAutoLoggingIn
	StateEstablished
	StateRegistrationFailed
	StateLoginAfterRegistrationFailed
)

var signupStateNames = map[SignupState]string{
	StateIdle:                         "idle",
	StateValidating:                   "validating",
	StateCreatingAccount:              "creating-account",
	StateAccountCreated:               "account-created",
	StateAutoLoggingIn:                "auto-logging-in",
	StateEstablished:                  "established",
	StateRegistrationFailed:           "registration-failed",
	StateLoginAfterRegistrationFailed: "login-after-registration-failed",
}

// String implements fmt.Stringer.
func (s SignupState) String() string {
	if name, ok := signupStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the flow has resolved.
func (s SignupState) Terminal() bool {
	switch s {
	case StateEstablished, StateRegistrationFailed, StateLoginAfterRegistrationFailed:
		return true
	default:
		return false
	}
}

// MsgRegistrationFailed is shown when the server gave no reason.
const MsgRegistrationFailed = "Failed to create user"

// AccountCreator creates accounts. *RegistrationGateway satisfies it.
type AccountCreator interface {
	CreateAccount(ctx context.Context, cred domain.Credential) (*domain.Accepted, error)
}

// Authenticator establishes sessions. *AuthGateway satisfies it.
type Authenticator interface {
	Login(ctx context.Context, cred domain.Credential) (*domain.Session, error)
}

// SignupOutcome is the result of one Submit.
type SignupOutcome struct {
	State      SignupState
	Validation domain.ValidationState
	// Reason is the user-facing failure text; empty on success.
	Reason     string
	Err        error
	Navigation domain.Navigation
	AccountID  string
}

// SignupSnapshot is the observable state of the orchestrator.
type SignupSnapshot struct {
	State     SignupState
	Submitted bool
	Reason    string
	Email     string
}

// RegistrationOrchestrator runs the two-phase signup: create the account,
// then log in with the same credential. Phase two never starts unless phase
// one succeeded, and a failure of phase two is reported separately from a
// failure to register.
type RegistrationOrchestrator struct {
	accounts AccountCreator
	auth     Authenticator
	logger   logger.Logger
	flight   singleflight.Group

	mu         sync.Mutex
	state      SignupState
	submitted  bool
	reason     string
	credential *domain.Credential
	generation uint64
	observers  []func(from, to SignupState)
}

// NewRegistrationOrchestrator creates an orchestrator in StateIdle.
func NewRegistrationOrchestrator(accounts AccountCreator, auth Authenticator, log logger.Logger) *RegistrationOrchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &RegistrationOrchestrator{
		accounts: accounts,
		auth:     auth,
		logger:   log,
	}
}

// OnTransition registers fn to be called on every state change. Observers
// run synchronously outside the orchestrator's lock.
func (o *RegistrationOrchestrator) OnTransition(fn func(from, to SignupState)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// State returns the current state.
func (o *RegistrationOrchestrator) State() SignupState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Snapshot returns the current observable state.
func (o *RegistrationOrchestrator) Snapshot() SignupSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := SignupSnapshot{
		State:     o.state,
		Submitted: o.submitted,
		Reason:    o.reason,
	}
	if o.credential != nil {
		snap.Email = o.credential.Email
	}
	return snap
}

// Reset returns to StateIdle from any state and forgets the credential,
// reason and submitted flag. An in-flight submission keeps running but its
// transitions are no longer applied.
func (o *RegistrationOrchestrator) Reset() {
	o.mu.Lock()
	from := o.state
	o.generation++
	o.state = StateIdle
	o.submitted = false
	o.reason = ""
	o.credential = nil
	observers := o.observers
	o.mu.Unlock()

	notify(observers, from, StateIdle)
}

// Submit runs the signup flow for cred. Concurrent submissions of the same
// credential share one run and one outcome.
func (o *RegistrationOrchestrator) Submit(ctx context.Context, cred domain.Credential) SignupOutcome {
	out, shared, err := shareCall(ctx, &o.flight, flightKey(cred), func(ctx context.Context) (SignupOutcome, error) {
		return o.run(ctx, cred), nil
	})
	if shared {
		o.logger.Debug("signup collapsed with in-flight submission", "email", cred.Email)
	}
	if err != nil {
		// The caller gave up; the run carries on and records its own result.
		return SignupOutcome{State: o.State(), Err: err, Navigation: domain.NavStay}
	}
	return out
}

func (o *RegistrationOrchestrator) run(ctx context.Context, cred domain.Credential) SignupOutcome {
	o.mu.Lock()
	o.generation++
	gen := o.generation
	o.submitted = true
	o.reason = ""
	o.mu.Unlock()

	o.transition(gen, StateValidating, "")
	validation := domain.Evaluate(cred.Email, cred.Password)
	if !validation.FormValid {
		o.transition(gen, StateIdle, "")
		return SignupOutcome{
			State:      StateIdle,
			Validation: validation,
			Err:        cred.Validate(),
			Navigation: domain.NavStay,
		}
	}

	o.hold(gen, cred)
	o.transition(gen, StateCreatingAccount, "")
	accepted, err := o.accounts.CreateAccount(ctx, cred)
	if err != nil {
		reason := registrationReason(err)
		o.logger.Info("signup registration failed", "email", cred.Email, "kind", domain.KindOf(err), "error", err)
		o.transition(gen, StateRegistrationFailed, reason)
		return SignupOutcome{
			State:      StateRegistrationFailed,
			Validation: validation,
			Reason:     reason,
			Err:        err,
			Navigation: domain.NavStay,
		}
	}

	var accountID string
	if accepted != nil {
		accountID = accepted.ID
	}

	o.transition(gen, StateAccountCreated, "")
	o.transition(gen, StateAutoLoggingIn, "")
	if _, err := o.auth.Login(ctx, cred); err != nil {
		reason := domain.ErrAutoLoginFailed.Message
		o.logger.Warn("signup auto-login failed", "email", cred.Email, "error", err)
		o.transition(gen, StateLoginAfterRegistrationFailed, reason)
		return SignupOutcome{
			State:      StateLoginAfterRegistrationFailed,
			Validation: validation,
			Reason:     reason,
			Err:        domain.ErrAutoLoginFailed.WithCause(err),
			Navigation: domain.NavGoLogin,
			AccountID:  accountID,
		}
	}

	o.transition(gen, StateEstablished, "")
	o.logger.Info("signup established session", "email", cred.Email)
	return SignupOutcome{
		State:      StateEstablished,
		Validation: validation,
		Navigation: domain.NavGoProtected,
		AccountID:  accountID,
	}
}

// transition moves to state unless a Reset has superseded run gen.
func (o *RegistrationOrchestrator) transition(gen uint64, state SignupState, reason string) {
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		return
	}
	from := o.state
	o.state = state
	if reason != "" {
		o.reason = reason
	}
	observers := o.observers
	o.mu.Unlock()

	o.logger.Debug("signup transition", "from", from, "to", state)
	notify(observers, from, state)
}

func (o *RegistrationOrchestrator) hold(gen uint64, cred domain.Credential) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen == o.generation {
		o.credential = &cred
	}
}

func notify(observers []func(from, to SignupState), from, to SignupState) {
	for _, fn := range observers {
		fn(from, to)
	}
}

// registrationReason is the server's message when it sent one, otherwise
// the generic failure text.
func registrationReason(err error) string {
	switch domain.KindOf(err) {
	case domain.KindConflict, domain.KindRejected:
		if de, ok := asDomainError(err); ok && de.Details != "" {
			return de.Details
		}
	}
	return MsgRegistrationFailed
}
