package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngmaloney/meteo-terminal/internal/dashboard"
	"github.com/ngmaloney/meteo-terminal/internal/ui"
)

const printTimeout = 30 * time.Second

func newPrintCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the dashboard once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, printTimeout)
			defer cancel()

			start, query, err := a.startLocation()
			if err != nil {
				return err
			}
			loc, err := a.resolve(ctx, start, query)
			if err != nil {
				return fmt.Errorf("resolving location: %w", err)
			}

			raw, err := a.forecast.GetForecast(ctx, loc.Latitude, loc.Longitude)
			if err != nil {
				return fmt.Errorf("fetching forecast: %w", err)
			}
			if err := a.store.SaveLast(loc); err != nil {
				a.logger.Error("saving location failed", "error", err)
			}

			d := dashboard.Build(*raw, loc, time.Now())
			fmt.Fprint(cmd.OutOrStdout(), ui.PlainDashboard(d, loc))
			return nil
		},
	}
}
