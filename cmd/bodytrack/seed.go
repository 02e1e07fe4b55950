package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var seedTrainerEmail string

var seedCmd = &cobra.Command{
	Use:   "seed-generic-routines",
	Short: "Load the starter exercise library and generic routine templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedTrainerEmail == "" {
			return errors.New("--trainer-email is required")
		}
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.SeedGenericRoutines(cmd.Context(), seedTrainerEmail)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d generic routine(s)\n", n)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedTrainerEmail, "trainer-email", "", "email of the trainer who authors the templates")
}
