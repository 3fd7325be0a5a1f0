package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the shell.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer for the built-in commands plus extra.
func NewCompleter(extra ...string) *Completer {
	commands := []string{
		"open", "where", "routes", "history", "help", "exit", "quit",
	}
	commands = append(commands, extra...)
	sort.Strings(commands)
	return &Completer{commands: commands}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
