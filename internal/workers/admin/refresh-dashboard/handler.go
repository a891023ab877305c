package refreshdashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sme-predictor/internal/common/cache"
	"sme-predictor/internal/common/config"
	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/metrics"
	"sme-predictor/internal/models"
)

const TaskType = "admin.refresh-dashboard"

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
	store   *Store
	cache   *cache.SnapshotCache
	now     func() time.Time
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Client       *http.Client
	Store        *Store
	// Cache is optional; without it snapshots live only in memory.
	Cache  *cache.SnapshotCache
	Logger logger.Logger
	Clock  func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := opts.CustomConfig
	if workerConfig == nil {
		workerConfig = createConfigFromAppConfig(opts.AppConfig)
	}
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	client := opts.Client
	if client == nil {
		client = http.NewClient(log)
	}
	store := opts.Store
	if store == nil {
		store = NewStore()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Handler{
		config:  workerConfig,
		logger:  log,
		service: NewService(client, workerConfig, log),
		store:   store,
		cache:   opts.Cache,
		now:     clock,
	}, nil
}

func (h *Handler) Store() *Store { return h.store }

func (h *Handler) Interval() time.Duration { return h.config.RefreshInterval }

// Refresh fetches a new snapshot and applies it unless a newer refresh has
// already been applied. On failure the current snapshot is left untouched.
func (h *Handler) Refresh(ctx context.Context) (*Snapshot, error) {
	seq := h.store.Begin()
	start := time.Now()

	data, err := h.service.fetch(ctx)
	if err != nil {
		metrics.DashboardRefreshes.WithLabelValues("failed").Inc()
		h.logger.Warn("dashboard refresh failed", map[string]interface{}{
			"seq":   seq,
			"error": err.Error(),
		})
		return nil, apperrors.NewDashboardError(err)
	}

	snap := &Snapshot{
		IssuedAt:    h.now().UTC(),
		Aggregate:   data.aggregate,
		Predictions: data.predictions.Predictions,
		Stats:       data.stats,
		Recent:      summarizeAll(recent(data.aggregate, h.config.RecentLimit)),
		Charts:      BuildCharts(data.aggregate, data.predictions.Predictions),
	}

	if !h.store.Apply(seq, snap) {
		metrics.DashboardRefreshes.WithLabelValues("stale").Inc()
		h.logger.Debug("discarding stale dashboard refresh", map[string]interface{}{"seq": seq})
		return h.store.Current(), nil
	}

	metrics.DashboardRefreshes.WithLabelValues("applied").Inc()
	metrics.DashboardLastRefresh.Set(float64(snap.IssuedAt.Unix()))
	h.logger.Info("dashboard refreshed", map[string]interface{}{
		"seq":         seq,
		"predictions": len(snap.Predictions),
		"duration":    time.Since(start).String(),
	})

	h.saveToCache(ctx, snap)
	return snap, nil
}

// RestoreFromCache installs the last cached snapshot so the dashboard can be
// served before the first refresh completes.
func (h *Handler) RestoreFromCache(ctx context.Context) (bool, error) {
	if h.cache == nil {
		return false, nil
	}
	payload, issuedAt, err := h.cache.Load(ctx)
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return false, fmt.Errorf("decode cached snapshot: %w", err)
	}
	snap.IssuedAt = issuedAt
	restored := h.store.Restore(&snap)
	h.logger.Info("dashboard snapshot restored from cache", map[string]interface{}{
		"issuedAt": issuedAt.Format(time.RFC3339),
		"applied":  restored,
	})
	return restored, nil
}

func (h *Handler) saveToCache(ctx context.Context, snap *Snapshot) {
	if h.cache == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Warn("failed to encode dashboard snapshot", map[string]interface{}{"error": err.Error()})
		return
	}
	if _, err := h.cache.Save(ctx, snap.IssuedAt, payload); err != nil {
		h.logger.Warn("failed to cache dashboard snapshot", map[string]interface{}{"error": err.Error()})
	}
}

// Execute returns the current snapshot with its predictions filtered. It
// refreshes first when asked to or when nothing has been loaded yet.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}

	snap := h.store.Current()
	if input.Refresh || snap == nil {
		fresh, err := h.Refresh(ctx)
		if err != nil && snap == nil {
			return nil, err
		}
		if fresh != nil {
			snap = fresh
		}
	}

	matches := Filter(snap.Predictions, input.TypeFilter, input.Search)
	return &Output{
		Snapshot:    snap,
		Predictions: matches,
		Matches:     summarizeAll(matches),
	}, nil
}

func recent(agg models.DashboardAggregate, limit int) []models.PredictionRecord {
	records := agg.RecentPredictions
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
