package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/escala-app/escala/core/board"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Create the period's events from the ministry templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager("events-command")
		if err != nil {
			return err
		}
		if err := mgr.CreateEvents(context.Background()); err != nil {
			return err
		}
		fmt.Printf("events created for %s\n", mgr.Period())
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ask the gateway to generate assignments for the period",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager("generate-command")
		if err != nil {
			return err
		}
		if err := mgr.GenerateSchedule(context.Background()); err != nil {
			return err
		}
		slots := mgr.Board().Matrix.Slots()
		fmt.Printf("schedule generated for %s: %d slots, %d vacant\n",
			mgr.Period(), len(slots), board.VacantCount(slots))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(generateCmd)
}
