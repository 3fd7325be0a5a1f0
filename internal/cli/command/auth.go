package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/core/service"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// credentialFlags returns the email and password flags. Commands with
// subcommands pass required=false, since urfave/cli checks required flags
// before dispatching to a subcommand.
func credentialFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Aliases:  []string{"e"},
			Usage:    "Account email",
			Required: required,
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Usage:    "Account password (at least 6 characters)",
			EnvVars:  []string{"TRACKER_PASSWORD"},
			Required: required,
		},
	}
}

// credentialFrom fills a form from the flags and returns its credential.
func credentialFrom(c *cli.Context, log logger.Logger) domain.Credential {
	form := domain.NewForm()
	form.OnChange(func(s domain.ValidationState) {
		log.Debug("credential form changed",
			"email_valid", s.EmailValid,
			"password_valid", s.PasswordValid,
			"form_valid", s.FormValid)
	})
	form.SetEmail(c.String("email"))
	form.SetPassword(c.String("password"))
	return form.Credential()
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Log in and store the session token",
		Flags:  credentialFlags(true),
		Action: loginAction,
	}
}

func loginAction(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	cred := credentialFrom(c, rt.Logger)
	ctx, cancel := rt.requestContext(c.Context)
	defer cancel()

	var outcome service.LoginOutcome
	rt.withSpinner("Logging in", func() {
		outcome = rt.Login.Submit(ctx, cred)
	})
	rt.navigate(outcome.Navigation)

	if !outcome.Submitted {
		return errors.New(describe(outcome.Err))
	}
	if outcome.Err != nil {
		rt.Logger.Debug("login failed", "credential", cred, "error", outcome.Err)
		return errors.New(outcome.Reason)
	}

	rt.printf("Logged in as %s\n", cred.Email)
	rt.printf("Next: %s\n", outcome.Navigation.Target())
	return nil
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Discard the stored session token",
		Action: logoutAction,
	}
}

func logoutAction(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	rt.Auth.Logout()
	rt.navigate(domain.NavGoLogin)
	rt.printf("Logged out\n")
	return nil
}

// SignupCommand returns the signup command. Its subcommands inspect and
// reset the registration flow, which keeps its state across shell commands.
func SignupCommand() *cli.Command {
	return &cli.Command{
		Name:   "signup",
		Usage:  "Create an account and log in with it",
		Flags:  credentialFlags(false),
		Action: signupAction,
		Subcommands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the state of the registration flow",
				Action: signupStatus,
			},
			{
				Name:   "reset",
				Usage:  "Return the registration flow to idle",
				Action: signupReset,
			},
		},
	}
}

func signupAction(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if !c.IsSet("email") || !c.IsSet("password") {
		return errors.New("both --email and --password are required")
	}

	cred := credentialFrom(c, rt.Logger)
	ctx, cancel := rt.requestContext(c.Context)
	defer cancel()

	var outcome service.SignupOutcome
	rt.withSpinner("Creating account", func() {
		outcome = rt.Signup.Submit(ctx, cred)
	})
	rt.navigate(outcome.Navigation)

	switch outcome.State {
	case service.StateEstablished:
		rt.printf("Account created for %s\n", cred.Email)
		if outcome.AccountID != "" {
			rt.printf("Account ID: %s\n", outcome.AccountID)
		}
		rt.printf("Next: %s\n", outcome.Navigation.Target())
		return nil
	case service.StateLoginAfterRegistrationFailed:
		rt.Logger.Debug("automatic login failed", "credential", cred, "error", outcome.Err)
		rt.printf("Next: %s\n", outcome.Navigation.Target())
		return errors.New(outcome.Reason)
	case service.StateRegistrationFailed:
		rt.Logger.Debug("registration failed", "credential", cred, "error", outcome.Err)
		return errors.New(outcome.Reason)
	default:
		return errors.New(describe(outcome.Err))
	}
}

// signupView is the registration flow report.
type signupView struct {
	State     string `json:"state"`
	Submitted bool   `json:"submitted"`
	Email     string `json:"email,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func signupStatus(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	snap := rt.Signup.Snapshot()
	return rt.print(signupView{
		State:     snap.State.String(),
		Submitted: snap.Submitted,
		Email:     snap.Email,
		Reason:    snap.Reason,
	})
}

func signupReset(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	from := rt.Signup.State()
	rt.Signup.Reset()
	rt.printf("Signup reset (was %s)\n", from)
	return nil
}

// MeCommand returns the me command.
func MeCommand() *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Show the profile of the logged-in account",
		Action: meAction,
	}
}

func meAction(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if err := rt.admit(domain.RoutePersonalInfo); err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c.Context)
	defer cancel()

	var profile *domain.Profile
	rt.withSpinner("Fetching profile", func() {
		profile, err = rt.Auth.FetchProfile(ctx)
	})
	if err != nil {
		return remoteError(err)
	}
	return rt.print(profile)
}

// remoteError reports a failed authenticated call. An unauthorized reply
// leaves the stored session in place; the user decides whether to log in
// again.
func remoteError(err error) error {
	if domain.KindOf(err) == domain.KindUnauthorized {
		return errors.New(describe(err) + " (run `tracker-cli login` to start a new session)")
	}
	return errors.New(describe(err))
}
