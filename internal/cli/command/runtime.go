package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/cli/config"
	"github.com/yndnr/expense-tracker/internal/cli/connection"
	"github.com/yndnr/expense-tracker/internal/cli/output"
	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/core/service"
	"github.com/yndnr/expense-tracker/internal/infra/tlsroots"
	"github.com/yndnr/expense-tracker/internal/storage/local"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

const runtimeKey = "runtime"

// Runtime holds the services shared by all commands of one process.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Logger     logger.Logger

	Sessions *service.SessionStore
	Conn     *connection.Manager
	Auth     *service.AuthGateway
	Accounts *service.RegistrationGateway
	Login    *service.LoginFlow
	Signup   *service.RegistrationOrchestrator
	Guard    *service.RouteGuard
	Expenses *service.ExpenseClient

	out         io.Writer
	errOut      io.Writer
	format      output.Format
	interactive bool
	nav         domain.Navigation
}

// NewRuntime wires the client services over backend, the session state store.
func NewRuntime(cfg *config.CLIConfig, configPath string, log logger.Logger, backend local.Store, connOpts ...connection.Option) *Runtime {
	if log == nil {
		log = logger.NewNop()
	}

	sessions := service.NewSessionStore(backend, log)
	conn := connection.NewManager(cfg.Server, cfg.RequestTimeout, sessions, connOpts...)
	api := conn.Client()
	auth := service.NewAuthGateway(api, sessions, log)
	accounts := service.NewRegistrationGateway(api, log)

	signup := service.NewRegistrationOrchestrator(accounts, auth, log)
	signup.OnTransition(func(from, to service.SignupState) {
		log.Debug("signup state changed", "from", from, "to", to)
	})

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		format = output.FormatTable
	}

	return &Runtime{
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     log,
		Sessions:   sessions,
		Conn:       conn,
		Auth:       auth,
		Accounts:   accounts,
		Login:      service.NewLoginFlow(auth, log),
		Signup:     signup,
		Guard:      service.NewRouteGuard(sessions),
		Expenses:   service.NewExpenseClient(api, log),
		out:        os.Stdout,
		errOut:     os.Stderr,
		format:     format,
	}
}

// connectionOptions derives client transport options from cfg.
func connectionOptions(cfg *config.CLIConfig) ([]connection.Option, error) {
	if cfg.CAFile == "" {
		return nil, nil
	}
	pool, err := tlsroots.Load(cfg.CAFile)
	if err != nil {
		return nil, err
	}
	return []connection.Option{connection.WithTLSConfig(pool.TLSConfig())}, nil
}

// SetOutput redirects command output and diagnostics.
func (r *Runtime) SetOutput(out, errOut io.Writer) {
	if out != nil {
		r.out = out
	}
	if errOut != nil {
		r.errOut = errOut
	}
}

// SetInteractive enables progress spinners on the diagnostics stream.
func (r *Runtime) SetInteractive(on bool) {
	r.interactive = on
}

// GetRuntime retrieves the runtime installed by the Before hook.
func GetRuntime(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, errors.New("command runtime not initialised")
}

// requestContext bounds one remote call by the configured request timeout.
func (r *Runtime) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, r.Conn.Timeout())
}

// withSpinner runs fn while a spinner shows message.
func (r *Runtime) withSpinner(message string, fn func()) {
	if !r.interactive {
		fn()
		return
	}
	s := output.NewSpinner(r.errOut, message)
	s.Start()
	defer s.Stop()
	fn()
}

// print renders data in the configured output format.
func (r *Runtime) print(data any) error {
	return output.NewFormatter(r.format).Format(r.out, data)
}

func (r *Runtime) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// navigate records the navigation intent of the last command.
func (r *Runtime) navigate(nav domain.Navigation) {
	r.nav = nav
}

// TakeNavigation returns and clears the navigation intent of the last
// command.
func (r *Runtime) TakeNavigation() domain.Navigation {
	nav := r.nav
	r.nav = domain.NavStay
	return nav
}

// admit consults the route guard. A denial records the redirect and
// returns an error naming it.
func (r *Runtime) admit(route domain.Route) error {
	admission := r.Guard.Check(route)
	if admission.Allowed {
		return nil
	}
	if admission.Redirect == domain.RouteLogin {
		r.navigate(domain.NavGoLogin)
	}
	return fmt.Errorf("%s requires a session: log in first (redirect to %s)", route, admission.Redirect)
}

// describe turns a service error into the text shown to the user.
func describe(err error) string {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return err.Error()
	}
	if fields := domain.FieldErrors(err); len(fields) > 0 {
		return de.Message + ": " + joinFields(fields)
	}
	return de.Reason()
}

func joinFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		msg := fields[name]
		if !strings.HasPrefix(msg, name) {
			msg = name + " " + msg
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
