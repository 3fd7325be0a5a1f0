package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/expense-tracker/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:      "set",
				Usage:     "Change a setting in the config file",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
		},
	}
}

func configView(cfg *config.CLIConfig) map[string]any {
	return map[string]any{
		"server":          cfg.Server,
		"output":          cfg.Output,
		"session_file":    cfg.SessionPath(),
		"request_timeout": cfg.RequestTimeout.String(),
		"ca_file":         cfg.CAFile,
		"log.level":       cfg.Log.Level,
		"log.format":      cfg.Log.Format,
	}
}

func configShow(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	return rt.print(configView(rt.Config))
}

func configSet(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set KEY VALUE (keys: %v)", config.Keys)
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	// Start from the file rather than the effective config so flag
	// overrides are not persisted.
	cfg, err := config.Load(rt.ConfigPath)
	if err != nil {
		return err
	}
	if err := config.Set(cfg, key, value); err != nil {
		return err
	}
	if err := config.Save(cfg, rt.ConfigPath); err != nil {
		return err
	}

	rt.Logger.Debug("config updated", "key", key, "path", rt.ConfigPath)
	rt.printf("%s = %s\n", key, value)
	return nil
}

func configPath(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	rt.printf("%s\n", rt.ConfigPath)
	return nil
}
