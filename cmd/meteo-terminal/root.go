package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngmaloney/meteo-terminal/internal/config"
	"github.com/ngmaloney/meteo-terminal/internal/ui"
)

// flags holds the command line overrides
type flags struct {
	configFile    string
	city          string
	latitude      float64
	longitude     float64
	metricsListen string
	logLevel      string
}

func newRootCommand() *cobra.Command {
	return buildRootCommand(&flags{})
}

func buildRootCommand(f *flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "meteo-terminal",
		Short:         "Weather dashboard for the terminal",
		Long:          "Current conditions, the next hours and the next days for a city, from Open-Meteo.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "Path to a config file (default: ./config.yaml or ~/.config/meteo-terminal/config.yaml)")
	pf.StringVar(&f.city, "city", "", "City to show instead of the last saved location")
	pf.Float64Var(&f.latitude, "lat", 0, "Latitude to show (requires --lon)")
	pf.Float64Var(&f.longitude, "lon", 0, "Longitude to show (requires --lat)")
	pf.StringVar(&f.metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address, e.g. :9464")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.MarkFlagsRequiredTogether("lat", "lon")

	rootCmd.AddCommand(newPrintCommand(f))
	return rootCmd
}

// loadConfig layers the changed flags over file, environment and defaults
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	v := config.New(f.configFile)
	applyFlags(cmd, f, v)
	return config.Load(v)
}

// applyFlags copies only the flags the user actually set, so unset flags do
// not shadow the config file
func applyFlags(cmd *cobra.Command, f *flags, v *viper.Viper) {
	changed := cmd.Flags().Changed
	if changed("city") {
		v.Set("location.cityname", f.city)
	}
	if changed("lat") {
		v.Set("location.latitude", f.latitude)
	}
	if changed("lon") {
		v.Set("location.longitude", f.longitude)
	}
	if changed("metrics-listen") {
		v.Set("metrics.listen", f.metricsListen)
	}
	if changed("log-level") {
		v.Set("log.level", f.logLevel)
	}
}

func runTUI(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.serveMetrics(ctx)

	start, query, err := a.startLocation()
	if err != nil {
		return err
	}

	model := ui.NewModel(a.services(), start, query)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
