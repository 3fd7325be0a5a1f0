package command

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/cli/output"
	"github.com/yndnr/expense-tracker/internal/core/domain"
)

// ExpenseCommand returns the expense subcommand group.
func ExpenseCommand() *cli.Command {
	return &cli.Command{
		Name:    "expense",
		Aliases: []string{"exp"},
		Usage:   "List and record expenses",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List expenses, newest first",
				Action:  expenseList,
			},
			{
				Name:  "add",
				Usage: "Record an expense",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "category",
						Aliases:  []string{"c"},
						Usage:    "Expense category",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "price",
						Aliases:  []string{"p"},
						Usage:    "Amount spent",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "date",
						Aliases: []string{"d"},
						Usage:   "Date (YYYY-MM-DD or RFC 3339), default today",
					},
					&cli.StringFlag{
						Name:     "notes",
						Aliases:  []string{"n"},
						Usage:    "Notes, at least 10 characters",
						Required: true,
					},
				},
				Action: expenseAdd,
			},
		},
	}
}

func expenseList(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if err := rt.admit(domain.RoutePersonalInfo); err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c.Context)
	defer cancel()

	var expenses []domain.Expense
	rt.withSpinner("Loading expenses", func() {
		expenses, err = rt.Expenses.List(ctx)
	})
	if err != nil {
		return remoteError(err)
	}
	if len(expenses) == 0 && rt.format == output.FormatTable {
		rt.printf("No expenses recorded\n")
		return nil
	}
	return rt.print(expenses)
}

func expenseAdd(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if err := rt.admit(domain.RoutePersonalInfo); err != nil {
		return err
	}

	date := c.String("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	price := c.Float64("price")
	input := domain.ExpenseInput{
		Category: c.String("category"),
		Date:     date,
		Price:    &price,
		Notes:    c.String("notes"),
	}

	ctx, cancel := rt.requestContext(c.Context)
	defer cancel()

	var accepted *domain.Accepted
	rt.withSpinner("Saving expense", func() {
		accepted, err = rt.Expenses.Create(ctx, input)
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindLocalValidation {
			return errors.New(describe(err))
		}
		return remoteError(err)
	}

	if accepted != nil && accepted.ID != "" {
		rt.printf("Expense recorded: %s\n", accepted.ID)
	} else {
		rt.printf("Expense recorded\n")
	}
	return nil
}
