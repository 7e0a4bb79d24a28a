package main

import (
	"github.com/spf13/cobra"

	"github.com/example/jobdesk/backend/internal/app"
	"github.com/example/jobdesk/backend/internal/config"
	"github.com/example/jobdesk/backend/internal/logging"
)

// cli carries state shared by every subcommand.
type cli struct {
	actor string
	cfg   config.Config
	app   *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:          "jobctl",
		Short:        "Manage job requests from the command line",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&c.actor, "actor", "", "Name recorded on timeline entries (defaults per operation)")

	cmd.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newCreateCmd(c),
		newDecideCmd(c),
		newAssignCmd(c),
		newStatusCmd(c),
		newNotesCmd(c),
		newExportCmd(c),
		newSeedCmd(c),
		newEventsCmd(c),
	)
	return cmd
}

// open loads configuration and, when withStore is set, wires the service.
func (c *cli) open(cmd *cobra.Command, withStore bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	if !withStore {
		return nil
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.SetOutput(cmd.ErrOrStderr())
	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}
