package cli

import (
	"delivery-route-sim/internal/app"
	"delivery-route-sim/internal/config"
	"delivery-route-sim/internal/platform/logger"
	"delivery-route-sim/internal/services"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
}

// NewRootCommand builds the deliveryctl command tree. Every subcommand
// simulates the configured day before answering.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "deliveryctl",
		Short:         "Simulate a delivery day and query its outcome",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.Get("DRS_CONFIG", ""), "configuration file (yaml or json)")

	root.AddCommand(
		newRunCommand(opts),
		newConsoleCommand(opts),
		newLookupCommand(opts),
		newStatusCommand(opts),
		newMileageCommand(opts),
	)
	return root
}

// simulate loads the config, runs the day and returns its result. Logs go to
// the command's stderr.
func simulate(cmd *cobra.Command, opts *options) (*services.Result, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter("cli", cmd.ErrOrStderr())
	a, err := app.New(cmd.Context(), cfg, prometheus.NewRegistry(), log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Errorf("app close: %v", err)
		}
	}()

	res, err := a.Run(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	return res, nil
}
