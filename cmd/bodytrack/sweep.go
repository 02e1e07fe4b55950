package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sweepCmd is meant for cron. It expires every ACTIVA subscription past its end date.
var sweepCmd = &cobra.Command{
	Use:   "sweep-expired",
	Short: "Expire lapsed subscriptions and move their clients to the free plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Services.Subscription.SweepExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "expired %d subscription(s)\n", n)
		return nil
	},
}
