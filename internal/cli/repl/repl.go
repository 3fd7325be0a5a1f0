package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// Executor runs a non-navigation shell command and returns the navigation
// intent it produced.
type Executor interface {
	Execute(ctx context.Context, args []string) (domain.Navigation, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, args []string) (domain.Navigation, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, args []string) (domain.Navigation, error) {
	return f(ctx, args)
}

// ErrUnbalancedQuote is returned for input with an unterminated quote.
var ErrUnbalancedQuote = errors.New("unbalanced quote")

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	nav       *Navigator
	exec      Executor
	prompt    *color.Color
	notice    *color.Color
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithCommands adds command names offered by the completer.
func WithCommands(names ...string) Option {
	return func(r *REPL) {
		r.completer = NewCompleter(names...)
	}
}

// New creates a shell that navigates with nav and delegates other commands
// to exec.
func New(nav *Navigator, exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory(""),
		nav:       nav,
		exec:      exec,
		prompt:    color.New(color.FgCyan),
		notice:    color.New(color.FgYellow),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Navigator returns the shell's navigator.
func (r *REPL) Navigator() *Navigator {
	return r.nav
}

// Run reads commands until exit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		r.warn("history not loaded: %v", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			r.warn("history not saved: %v", err)
		}
	}()

	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		r.prompt.Fprintf(r.output, "tracker:%s> ", r.nav.Current())

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "open", "cd":
		if len(args) != 2 {
			return fmt.Errorf("usage: open <route>")
		}
		return r.open(domain.ParseRoute(args[1]))
	case "where", "pwd":
		fmt.Fprintln(r.output, r.nav.Current())
		return nil
	case "routes":
		for _, route := range domain.Routes {
			access := "public"
			if route.Protected() {
				access = "protected"
			}
			fmt.Fprintf(r.output, "%-16s %s\n", route, access)
		}
		return nil
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return nil
	case "help":
		r.help()
		return nil
	}

	nav, err := r.exec.Execute(ctx, args)
	r.follow(nav)
	return err
}

func (r *REPL) open(route domain.Route) error {
	if !route.Known() {
		return fmt.Errorf("unknown route %q", route)
	}
	admission := r.nav.Open(route)
	if !admission.Allowed {
		r.notice.Fprintf(r.output, "%s requires a session; redirected to %s\n", route, admission.Redirect)
	}
	return nil
}

func (r *REPL) follow(nav domain.Navigation) {
	if nav == domain.NavStay {
		return
	}
	before := r.nav.Current()
	admission := r.nav.Follow(nav)
	if !admission.Allowed {
		r.notice.Fprintf(r.output, "%s requires a session; redirected to %s\n", nav.Target(), admission.Redirect)
		return
	}
	if r.nav.Current() != before {
		r.notice.Fprintf(r.output, "now at %s\n", r.nav.Current())
	}
}

func (r *REPL) help() {
	fmt.Fprintln(r.output, "Navigation:")
	fmt.Fprintln(r.output, "  open <route>   enter a route (protected routes need a session)")
	fmt.Fprintln(r.output, "  where          show the current route")
	fmt.Fprintln(r.output, "  routes         list routes")
	fmt.Fprintln(r.output, "  history        show command history")
	fmt.Fprintln(r.output, "  exit, quit     leave the shell")
	if len(r.completer.commands) > 0 {
		fmt.Fprintf(r.output, "Commands: %s\n", strings.Join(r.completer.commands, ", "))
	}
}

func (r *REPL) warn(format string, args ...any) {
	r.notice.Fprintf(r.output, format+"\n", args...)
}

// Split breaks a shell line into arguments. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func Split(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		escaped bool
		inWord  bool
	)

	for _, c := range line {
		switch {
		case escaped:
			current.WriteRune(c)
			escaped = false
		case c == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				current.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inWord = true
		case c == ' ' || c == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(c)
			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnbalancedQuote
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
