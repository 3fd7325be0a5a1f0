package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// UsersCommand returns the users subcommand group.
func UsersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Browse registered accounts",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List accounts, newest first",
				Action:  usersList,
			},
		},
	}
}

func usersList(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if err := rt.admit(domain.RoutePersonalInfo); err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c.Context)
	defer cancel()

	var users []domain.Profile
	rt.withSpinner("Loading accounts", func() {
		users, err = rt.Accounts.ListUsers(ctx)
	})
	if err != nil {
		return remoteError(err)
	}
	return rt.print(users)
}
