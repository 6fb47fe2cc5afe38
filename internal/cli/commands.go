package cli

import (
	"delivery-route-sim/internal/console"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/services"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Print the end-of-day report and consistency check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := simulate(cmd, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := console.PrintReport(out, services.BuildReport(res), res.Addresses); err != nil {
				return err
			}

			verr := res.Verify()
			if verr == nil {
				fmt.Fprintln(out, "Consistency check: ok")
				return nil
			}
			fmt.Fprintf(out, "Consistency check failed:\n%v\n", verr)
			if strict {
				return verr
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the consistency check fails")
	return cmd
}

func newConsoleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Query the simulated day interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := simulate(cmd, opts)
			if err != nil {
				return err
			}
			return console.New(res, cmd.InOrStdin(), cmd.OutOrStdout(), nil).Run(cmd.Context())
		},
	}
}

func newLookupCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <package id> <HH:MM>",
		Short: "Show one package's status at a time of day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := simulate(cmd, opts)
			if err != nil {
				return err
			}
			at, err := domain.ParseClock(res.Day, args[1])
			if err != nil {
				return err
			}
			return console.PrintLookup(cmd.OutOrStdout(), res, args[0], at)
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <HH:MM>",
		Short: "Show every package's status at a time of day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := simulate(cmd, opts)
			if err != nil {
				return err
			}
			at, err := domain.ParseClock(res.Day, args[0])
			if err != nil {
				return err
			}
			return console.PrintStatus(cmd.OutOrStdout(), res, at)
		},
	}
}

func newMileageCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mileage",
		Short: "Show miles driven per truck and in total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := simulate(cmd, opts)
			if err != nil {
				return err
			}
			return console.PrintMileage(cmd.OutOrStdout(), res)
		},
	}
}
