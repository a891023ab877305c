package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sme-predictor/internal/common/config"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "sme-predictor",
	Short: "Client for the SME success prediction API",
	Long: `Submit business profiles to the SME success prediction API, render the
results, export PDF reports, send feedback and monitor the admin dashboard.

Examples:
  sme-predictor predict new --file profile.yaml --report
  sme-predictor predict existing --field business_capital=5,000,000 --field ...
  sme-predictor feedback --message "Very helpful" --type new_business
  sme-predictor dashboard --type existing_business --search manufacturing
  sme-predictor serve`,
	Version:      "1.0.0",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(activitiesCmd)
}

// app carries the ambient services every command needs.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	zap     *zap.Logger
	obs     *observability.Observability
	tracing *observability.Tracing
}

func newApp() (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	zl := logger.New(level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zl).
		WithFields(map[string]interface{}{"service": cfg.Observability.ServiceName})

	a := &app{cfg: cfg, log: log, zap: zl}
	if cfg.Observability.MetricsEnabled {
		a.obs = observability.New(cfg.Observability.ServiceName, log)
	}
	a.tracing, err = observability.NewTracing(cfg.Observability)
	if err != nil {
		log.Warn("tracing disabled", map[string]interface{}{"error": err.Error()})
	}

	log.Debug("configuration loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"envFile":     cfg.EnvFile,
		"localURL":    cfg.API.LocalURL,
		"deployedURL": cfg.API.DeployedURL,
	})
	return a, nil
}

func (a *app) close() {
	a.obs.Shutdown()
	if err := a.tracing.Shutdown(); err != nil {
		a.log.Warn("tracer shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	_ = a.zap.Sync()
}

// withApp runs fn with a configured app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(cmd.Context(), a)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
