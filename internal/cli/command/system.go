package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/cli/connection"
	"github.com/yndnr/expense-tracker/internal/cli/output"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Check the tracker server",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check that the server is reachable and healthy",
				Action: systemHealth,
			},
		},
	}
}

// healthView mirrors the server's /health reply.
type healthView struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Storage string `json:"storage,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
	Target  string `json:"target"`
}

func systemHealth(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c.Context)
	defer cancel()

	client := rt.Conn.Client()
	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("server unreachable: %s", describe(err))
	}

	var result healthView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return fmt.Errorf("server unhealthy: %w", err)
	}
	result.Target = client.BaseURL()

	if rt.format != output.FormatTable {
		return rt.print(result)
	}

	if result.Status != "healthy" {
		rt.printf("✗ Server is unhealthy: %s\n", result.Status)
		return fmt.Errorf("server reported status %q", result.Status)
	}
	rt.printf("✓ Server is healthy\n")
	rt.printf("  Target:  %s\n", result.Target)
	if result.Version != "" {
		rt.printf("  Version: %s\n", result.Version)
	}
	if result.Storage != "" {
		rt.printf("  Storage: %s\n", result.Storage)
	}
	if result.Uptime != "" {
		rt.printf("  Uptime:  %s\n", result.Uptime)
	}
	return nil
}
