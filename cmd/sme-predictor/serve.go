package main

import (
	"context"
	"time"

	"sme-predictor/internal/common/cache"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/models"
	"sme-predictor/internal/server"
	refreshdashboard "sme-predictor/internal/workers/admin/refresh-dashboard"
	submitfeedback "sme-predictor/internal/workers/communication/submit-feedback"
	submitprediction "sme-predictor/internal/workers/prediction/submit-prediction"
	exportreport "sme-predictor/internal/workers/presentation/export-report"
	formatrecommendations "sme-predictor/internal/workers/presentation/format-recommendations"
	renderresult "sme-predictor/internal/workers/presentation/render-result"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var servePoll bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API in front of the prediction workflow",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&servePoll, "poll", true, "refresh the admin dashboard in the background")
}

func runServe(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		ctx, stop := signalContext(ctx)
		defer stop()

		a.log.Info("starting sme-predictor server", map[string]interface{}{
			"version":     a.cfg.App.Version,
			"environment": a.cfg.App.Environment,
			"address":     a.cfg.Server.Address,
		})

		// one client so every worker shares the transport and request metrics
		client := http.NewClient(a.log)

		predictions := make(map[models.Variant]*submitprediction.Handler, 2)
		for _, variant := range []models.Variant{models.VariantPreInvestment, models.VariantExistingBusiness} {
			h, err := submitprediction.NewHandler(submitprediction.HandlerOptions{
				AppConfig:     a.cfg,
				Variant:       variant,
				Client:        client,
				Observability: a.obs,
				Logger:        a.log,
			})
			if err != nil {
				return err
			}
			predictions[variant] = h
		}

		report, err := exportreport.NewHandler(exportreport.HandlerOptions{AppConfig: a.cfg, Logger: a.log})
		if err != nil {
			return err
		}
		feedback, err := submitfeedback.NewHandler(submitfeedback.HandlerOptions{
			AppConfig: a.cfg,
			Client:    client,
			Logger:    a.log,
		})
		if err != nil {
			return err
		}

		snapshots, closeCache := a.snapshotCache(ctx)
		defer closeCache()

		dashboard, err := refreshdashboard.NewHandler(refreshdashboard.HandlerOptions{
			AppConfig: a.cfg,
			Client:    client,
			Cache:     snapshots,
			Logger:    a.log,
		})
		if err != nil {
			return err
		}
		if _, err := dashboard.RestoreFromCache(ctx); err != nil {
			a.log.Warn("dashboard cache restore failed", map[string]interface{}{"error": err.Error()})
		}

		srv := server.New(a.cfg.Server, server.Dependencies{
			PreInvestment:    predictions[models.VariantPreInvestment],
			ExistingBusiness: predictions[models.VariantExistingBusiness],
			Render:           renderresult.NewHandler(a.log),
			Recommendations:  formatrecommendations.NewHandler(a.log),
			Report:           report,
			Feedback:         feedback,
			Dashboard:        dashboard,
			Catalog:          server.Activities(a.cfg.App.Version),
			Logger:           a.log,
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(gctx) })
		if servePoll {
			g.Go(func() error { return refreshdashboard.NewPoller(dashboard).Run(gctx) })
		}

		err = g.Wait()
		a.log.Info("sme-predictor server stopped", nil)
		return err
	})
}

// snapshotCache connects the dashboard snapshot cache when enabled. An
// unreachable Redis disables the cache rather than failing startup.
func (a *app) snapshotCache(ctx context.Context) (*cache.SnapshotCache, func()) {
	if !a.cfg.Cache.Enabled {
		return nil, func() {}
	}

	snapshots := cache.NewSnapshotCache(cache.NewRedis(a.cfg.Cache), a.cfg.Cache)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := snapshots.Ping(pingCtx); err != nil {
		a.log.Warn("redis unavailable, dashboard cache disabled", map[string]interface{}{
			"address": a.cfg.Cache.Address,
			"error":   err.Error(),
		})
		_ = snapshots.Close()
		return nil, func() {}
	}

	a.log.Info("dashboard cache connected", map[string]interface{}{"address": a.cfg.Cache.Address})
	return snapshots, func() {
		if err := snapshots.Close(); err != nil {
			a.log.Warn("redis close failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
