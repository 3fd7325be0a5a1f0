// Package main provides the entry point for tracker-cli.
//
// tracker-cli is the command-line client of the Daily Expense Tracker. It
// keeps the login session in a local state file and offers both
// single-command mode and an interactive shell:
//
//	tracker-cli signup --email ada@example.com --password secret123
//	tracker-cli expense list -o json
//	tracker-cli shell
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/expense-tracker/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
