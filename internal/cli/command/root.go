package command

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/cli/config"
	"github.com/yndnr/expense-tracker/internal/infra/buildinfo"
	"github.com/yndnr/expense-tracker/internal/storage/local"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "tracker-cli",
		Usage:    "Daily Expense Tracker command-line client",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Commands: commands(),
		Metadata: map[string]any{},
		Before:   before,
	}
}

func commands() []*cli.Command {
	return []*cli.Command{
		LoginCommand(),
		LogoutCommand(),
		SignupCommand(),
		MeCommand(),
		SessionCommand(),
		ExpenseCommand(),
		UsersCommand(),
		SystemCommand(),
		ConfigCommand(),
		VersionCommand(),
		ShellCommand(),
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "tracker server address (default from config, http://localhost:5000)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging on stderr",
		},
		&cli.StringFlag{
			Name:  "session-file",
			Usage: "Session state file (default ~/.tracker/session.yaml)",
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "PEM file with extra CA certificates for https servers",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server      string
	ConfigPath  string
	Output      string
	Verbose     bool
	SessionFile string
	CAFile      string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:      c.String("server"),
		ConfigPath:  c.String("config"),
		Output:      c.String("output"),
		Verbose:     c.Bool("verbose"),
		SessionFile: c.String("session-file"),
		CAFile:      c.String("ca-file"),
	}
}

// before loads configuration and installs the Runtime. A runtime that is
// already installed, as in the shell, is kept.
func before(c *cli.Context) error {
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	if _, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return nil
	}

	flags := ParseGlobalFlags(c)
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	cfg, err = config.Merge(cfg, map[string]string{
		"server":       flags.Server,
		"output":       flags.Output,
		"session_file": flags.SessionFile,
		"ca_file":      flags.CAFile,
	})
	if err != nil {
		return err
	}
	if flags.Verbose {
		cfg.Log.Level = "debug"
	}

	errOut := c.App.ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: errOut,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	connOpts, err := connectionOptions(cfg)
	if err != nil {
		return err
	}

	rt := NewRuntime(cfg, flags.ConfigPath, log, local.NewFileStore(cfg.SessionPath()), connOpts...)
	rt.SetOutput(c.App.Writer, errOut)
	rt.SetInteractive(isTerminal(errOut))
	c.App.Metadata[runtimeKey] = rt

	log.Debug("cli initialised", "server", cfg.Server, "session_file", cfg.SessionPath())
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
