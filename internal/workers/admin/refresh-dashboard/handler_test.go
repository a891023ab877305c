package refreshdashboard

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sme-predictor/internal/common/cache"
	"sme-predictor/internal/common/config"
	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func record(id string, variant models.Variant, result string) models.PredictionRecord {
	return models.PredictionRecord{
		ID:               models.RecordID(id),
		PredictionType:   variant,
		PredictionResult: json.RawMessage(result),
		Timestamp:        "2025-03-14T09:00:00Z",
	}
}

func samplePredictions() []models.PredictionRecord {
	return []models.PredictionRecord{
		record("1", models.VariantPreInvestment, `{"prediction":1,"success_probability":0.71,"confidence_level":"High"}`),
		record("2", models.VariantExistingBusiness, `{"prediction":"Failure","success_probability":0.32}`),
		record("3", models.VariantPreInvestment, `{"prediction":0,"success_probability":0.28,"confidence_level":"Low","sector":"Manufacturing"}`),
		record("4", models.VariantExistingBusiness, `{"prediction":"Success","success_probability":0.88}`),
		record("5", models.VariantPreInvestment, `{"prediction":1,"success_probability":0.64,"confidence_level":"High"}`),
	}
}

// adminServer serves the three admin endpoints. dashboardHook, when set, runs
// before /admin/dashboard answers and may change the reported total.
type adminServer struct {
	*httptest.Server
	calls         atomic.Int32
	fail          atomic.Bool
	dashboardHook func(call int32) int
}

func newAdminServer(t *testing.T) *adminServer {
	s := &adminServer{}
	s.Server = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if s.fail.Load() {
			w.WriteHeader(nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/admin/dashboard":
			call := s.calls.Add(1)
			total := 5
			if s.dashboardHook != nil {
				total = s.dashboardHook(call)
			}
			_ = json.NewEncoder(w).Encode(models.DashboardAggregate{
				TotalPredictions:            total,
				NewBusinessPredictions:      3,
				ExistingBusinessPredictions: 2,
				SuccessRateNew:              66.7,
				SuccessRateExisting:         50,
				PredictionsByDate:           map[string]int{"2025-03-14": 3, "2025-03-12": 2},
				RecentPredictions:           samplePredictions(),
			})
		case "/admin/predictions":
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			_ = json.NewEncoder(w).Encode(models.PredictionList{Predictions: samplePredictions()})
		case "/admin/stats":
			_, _ = fmt.Fprint(w, `{"total_predictions":5,"statistics":{"new_business":{"total":3,"successful":2},"existing_business":{"total":2,"successful":1}}}`)
		default:
			w.WriteHeader(nethttp.StatusNotFound)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestHandler(t *testing.T, baseURL string, snapshots *cache.SnapshotCache) *Handler {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.RequestTimeout = 2 * time.Second
	cfg.RefreshInterval = 20 * time.Millisecond
	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Cache:        snapshots,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Filter
// ==========================

func TestFilter(t *testing.T) {
	preds := samplePredictions()

	t.Run("type filter keeps order", func(t *testing.T) {
		got := Filter(preds, "new_business", "")
		require.Len(t, got, 3)
		assert.Equal(t, []models.RecordID{"1", "3", "5"}, []models.RecordID{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("all and empty match every type", func(t *testing.T) {
		assert.Len(t, Filter(preds, "all", ""), 5)
		assert.Len(t, Filter(preds, "", ""), 5)
	})

	t.Run("search matches serialized result case-insensitively", func(t *testing.T) {
		got := Filter(preds, "all", "MANUFACTURING")
		require.Len(t, got, 1)
		assert.Equal(t, models.RecordID("3"), got[0].ID)
	})

	t.Run("search matches type and id", func(t *testing.T) {
		assert.Len(t, Filter(preds, "all", "existing_business"), 2)
		assert.Len(t, Filter(preds, "existing_business", "4"), 1)
	})

	t.Run("type and search combine", func(t *testing.T) {
		assert.Empty(t, Filter(preds, "existing_business", "manufacturing"))
	})
}

func TestIsSuccess(t *testing.T) {
	preds := samplePredictions()
	got := make([]bool, len(preds))
	for i, p := range preds {
		got[i] = IsSuccess(p)
	}
	assert.Equal(t, []bool{true, false, false, true, true}, got)

	// a numeric 1 on an existing-business record is not a success
	assert.False(t, IsSuccess(record("9", models.VariantExistingBusiness, `{"prediction":1}`)))
	assert.False(t, IsSuccess(record("10", models.VariantPreInvestment, `not json`)))
}

// ==========================
// Charts
// ==========================

func TestBuildCharts(t *testing.T) {
	charts := BuildCharts(models.DashboardAggregate{
		NewBusinessPredictions:      3,
		ExistingBusinessPredictions: 1,
		SuccessRateNew:              66.666,
		PredictionsByDate:           map[string]int{"2025-03-14": 4, "2025-03-01": 1, "2025-03-10": 2},
	}, samplePredictions())

	assert.Equal(t, []string{"2025-03-01", "2025-03-10", "2025-03-14"}, charts.PredictionsByDate.Labels)
	assert.Equal(t, []float64{1, 2, 4}, charts.PredictionsByDate.Values)

	assert.Equal(t, []string{"66.7%", "0.0%"}, charts.SuccessRate.Legend)
	assert.Equal(t, []string{"3 (75.0%)", "1 (25.0%)"}, charts.Distribution.Legend)
	assert.Equal(t, []string{colorNew, colorExisting}, charts.Distribution.Colors)

	assert.Equal(t, []float64{2, 0, 1}, charts.Confidence.Values)
	assert.False(t, charts.Confidence.Empty)

	empty := BuildCharts(models.DashboardAggregate{}, nil)
	assert.True(t, empty.PredictionsByDate.Empty)
	assert.True(t, empty.Distribution.Empty)
	assert.True(t, empty.Confidence.Empty)
}

// ==========================
// Store
// ==========================

func TestStore_LastWriteWins(t *testing.T) {
	s := NewStore()
	first := s.Begin()
	second := s.Begin()
	assert.Less(t, first, second)

	require.True(t, s.Apply(second, &Snapshot{Aggregate: models.DashboardAggregate{TotalPredictions: 2}}))
	assert.False(t, s.Apply(first, &Snapshot{Aggregate: models.DashboardAggregate{TotalPredictions: 1}}))

	assert.Equal(t, 2, s.Current().Aggregate.TotalPredictions)
	assert.Equal(t, second, s.Current().Seq)

	assert.False(t, s.Restore(&Snapshot{}))
}

func TestStore_ConcurrentBegin(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, dup := seen.LoadOrStore(s.Begin(), true)
			assert.False(t, dup)
		}()
	}
	wg.Wait()
}

// ==========================
// Refresh
// ==========================

func TestRefresh_BuildsSnapshot(t *testing.T) {
	srv := newAdminServer(t)
	h := newTestHandler(t, srv.URL, nil)

	snap, err := h.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, 5, snap.Aggregate.TotalPredictions)
	assert.Len(t, snap.Predictions, 5)
	assert.Equal(t, 3, snap.Stats.Statistics.NewBusiness.Total)
	assert.Len(t, snap.Recent, 5)
	assert.Equal(t, "71.0%", snap.Recent[0].Probability)
	assert.Equal(t, "High", snap.Recent[0].ConfidenceLevel)
	assert.Empty(t, snap.Recent[1].ConfidenceLevel)
	assert.Same(t, snap, h.Store().Current())
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	srv := newAdminServer(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	srv.dashboardHook = func(call int32) int {
		if call == 1 {
			close(entered)
			<-release
			return 1
		}
		return 2
	}
	h := newTestHandler(t, srv.URL, nil)

	slowDone := make(chan *Snapshot)
	go func() {
		snap, err := h.Refresh(context.Background())
		assert.NoError(t, err)
		slowDone <- snap
	}()

	<-entered
	fast, err := h.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fast.Aggregate.TotalPredictions)

	close(release)
	slow := <-slowDone

	current := h.Store().Current()
	assert.Equal(t, 2, current.Aggregate.TotalPredictions)
	assert.Equal(t, uint64(2), current.Seq)
	assert.Same(t, current, slow)
}

func TestRefresh_FailureKeepsState(t *testing.T) {
	srv := newAdminServer(t)
	h := newTestHandler(t, srv.URL, nil)

	first, err := h.Refresh(context.Background())
	require.NoError(t, err)

	srv.fail.Store(true)
	_, err = h.Refresh(context.Background())
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeDashboardFailed, stdErr.Code)

	assert.Same(t, first, h.Store().Current())
}

// ==========================
// Execute and Poller
// ==========================

func TestExecute_FiltersCurrentSnapshot(t *testing.T) {
	srv := newAdminServer(t)
	h := newTestHandler(t, srv.URL, nil)

	out, err := h.Execute(context.Background(), &Input{TypeFilter: "new_business"})
	require.NoError(t, err)
	require.Len(t, out.Predictions, 3)
	assert.Len(t, out.Matches, 3)
	assert.Equal(t, int32(1), srv.calls.Load())

	// served from the store without a new fetch
	_, err = h.Execute(context.Background(), &Input{Search: "success"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.calls.Load())

	_, err = h.Execute(context.Background(), &Input{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.calls.Load())
}

func TestPoller_RefreshesUntilCancelled(t *testing.T) {
	srv := newAdminServer(t)
	h := newTestHandler(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- NewPoller(h).Run(ctx) }()

	assert.Eventually(t, func() bool { return srv.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	assert.NotNil(t, h.Store().Current())
}

func TestPoller_OnUpdateReceivesSnapshots(t *testing.T) {
	srv := newAdminServer(t)
	h := newTestHandler(t, srv.URL, nil)

	var updates atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller := NewPoller(h).OnUpdate(func(snap *Snapshot) {
		if snap != nil {
			updates.Add(1)
		}
	})
	go func() { _ = poller.Run(ctx) }()

	assert.Eventually(t, func() bool { return updates.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

// ==========================
// Snapshot cache
// ==========================

func TestSnapshotCache_RestoreAfterRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	snapshots := cache.NewSnapshotCache(client, config.RedisConfig{KeyPrefix: "test", TTL: 60})

	srv := newAdminServer(t)
	first := newTestHandler(t, srv.URL, snapshots)
	_, err := first.Refresh(context.Background())
	require.NoError(t, err)

	restarted := newTestHandler(t, srv.URL, snapshots)
	restored, err := restarted.RestoreFromCache(context.Background())
	require.NoError(t, err)
	require.True(t, restored)

	snap := restarted.Store().Current()
	require.NotNil(t, snap)
	assert.Equal(t, 5, snap.Aggregate.TotalPredictions)
	assert.Len(t, snap.Predictions, 5)

	// the first real refresh still wins over the restored snapshot
	fresh, err := restarted.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, restarted.Store().Current())
}

func TestSnapshotCache_EmptyCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := newTestHandler(t, "http://unused", cache.NewSnapshotCache(client, config.RedisConfig{KeyPrefix: "test"}))
	restored, err := h.RestoreFromCache(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Nil(t, h.Store().Current())
}
