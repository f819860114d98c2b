package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/escala-app/escala/auth"
	"github.com/escala-app/escala/config"
	"github.com/escala-app/escala/connectors/clients/roster"
	"github.com/escala-app/escala/core/schedule"
	"github.com/escala-app/escala/infra/logger"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the period's schedule board",
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

// newManager builds a one-shot schedule manager from the configuration.
func newManager(component string) (*schedule.Manager, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	p, err := period()
	if err != nil {
		return nil, err
	}
	var creds roster.Credentials
	if cfg.Auth.TokenURL != "" {
		creds = auth.NewPasswordCred(cfg.Auth)
	}
	client, err := roster.New(cfg.Gateway, creds)
	if err != nil {
		return nil, fmt.Errorf("roster client: %w", err)
	}
	return schedule.New(client, cfg.Board, p, logger.New(component), nil)
}

func runBoard(cmd *cobra.Command, args []string) error {
	mgr, err := newManager("board-command")
	if err != nil {
		return err
	}
	if err := mgr.Refresh(context.Background()); err != nil {
		return err
	}
	snap := mgr.Board()
	fmt.Printf("Schedule %s\n", snap.Period)
	for _, svc := range snap.Matrix {
		fmt.Printf("\n%s\n", svc.Name)
		for _, ev := range svc.Events {
			fmt.Printf("  %s (event %d)\n", ev.Date, ev.EventID)
			for _, s := range ev.Slots {
				name := s.VolunteerName
				if s.Vacant() {
					name = "-- VACANT --"
				} else if u, ok := snap.Utilizations[*s.VolunteerID]; ok {
					name = fmt.Sprintf("%s (%d/%d)", name, u.Assigned, u.Cap)
					if u.Overloaded() {
						name += " OVERLOADED"
					}
				}
				fmt.Printf("    %-16s %s\n", s.RoleName+":", name)
			}
		}
	}
	if len(snap.Unassigned) > 0 {
		fmt.Printf("\nNot scheduled this month:\n")
		for _, v := range snap.Unassigned {
			fmt.Printf("  %s (cap %d)\n", v.Name, v.MonthlyCap)
		}
	}
	return nil
}
