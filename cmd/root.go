package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/escala-app/escala/app"
	"github.com/escala-app/escala/config"
	"github.com/escala-app/escala/core/model"
	"github.com/escala-app/escala/infra/logger"
)

var (
	cfgPath string
	year    int
	month   int
)

var rootCmd = &cobra.Command{
	Use:   "escala",
	Short: "Schedule board service for volunteer rosters",
	RunE:  run,
}

func init() {
	now := time.Now()
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().IntVar(&year, "year", now.Year(), "schedule year")
	rootCmd.PersistentFlags().IntVar(&month, "month", int(now.Month()), "schedule month")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func period() (model.Period, error) {
	p := model.Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return model.Period{}, err
	}
	return p, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	p, err := period()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, p)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
