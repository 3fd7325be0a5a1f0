package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/cli/repl"
	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start the interactive navigation shell",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write ~/.tracker/history",
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	history := repl.NewHistory(repl.DefaultHistoryPath())
	if c.Bool("no-history") {
		history = repl.NewHistory("")
	}

	nav := repl.NewNavigator(rt.Guard, domain.RouteHome)
	nav.OnChange(func(from, to domain.Route) {
		rt.Logger.Debug("route changed", "from", from, "to", to)
	})

	var names []string
	for _, cmd := range commands() {
		if cmd.Name != "shell" {
			names = append(names, cmd.Name)
		}
	}

	shell := repl.New(nav, &shellExecutor{rt: rt},
		repl.WithIO(c.App.Reader, rt.out),
		repl.WithHistory(history),
		repl.WithCommands(names...),
	)

	if rt.Sessions.IsAuthenticated() {
		rt.printf("Session found. Type 'open personal-info' to continue, 'help' for commands.\n")
	} else {
		rt.printf("No session. Type 'login --email ... --password ...' or 'signup', 'help' for commands.\n")
	}
	return shell.Run(c.Context)
}

// shellExecutor runs CLI commands inside the shell against the shared
// runtime, so the signup orchestrator and session keep their state between
// commands.
type shellExecutor struct {
	rt *Runtime
}

// Execute implements repl.Executor.
func (e *shellExecutor) Execute(ctx context.Context, args []string) (domain.Navigation, error) {
	if len(args) == 0 {
		return domain.NavStay, nil
	}
	if args[0] == "shell" {
		return domain.NavStay, errors.New("already in the shell")
	}

	app := App()
	app.Metadata[runtimeKey] = e.rt
	app.Writer = e.rt.out
	app.ErrWriter = e.rt.errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	e.rt.TakeNavigation()
	err := app.RunContext(ctx, append([]string{app.Name}, args...))
	return e.rt.TakeNavigation(), err
}
