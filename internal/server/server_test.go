package server

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sme-predictor/internal/common/config"
	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/models"
	refreshdashboard "sme-predictor/internal/workers/admin/refresh-dashboard"
	submitfeedback "sme-predictor/internal/workers/communication/submit-feedback"
	submitprediction "sme-predictor/internal/workers/prediction/submit-prediction"
	exportreport "sme-predictor/internal/workers/presentation/export-report"
	formatrecommendations "sme-predictor/internal/workers/presentation/format-recommendations"
	renderresult "sme-predictor/internal/workers/presentation/render-result"
	"sme-predictor/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const predictBody = `{
  "success": true,
  "prediction": 1,
  "prediction_label": "Likely to Succeed",
  "success_probability": 0.62,
  "confidence_level": "High",
  "recommendations": {"action_items": ["Track monthly sales"], "risk_level": "Moderate"}
}`

// newUpstream fakes the prediction API.
func newUpstream(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/predict":
			_, _ = io.WriteString(w, predictBody)
		case "/predict-existing-business":
			w.WriteHeader(nethttp.StatusServiceUnavailable)
		case "/feedback":
			w.WriteHeader(nethttp.StatusCreated)
		case "/admin/dashboard":
			_, _ = io.WriteString(w, `{"total_predictions":2,"new_business_predictions":1,"existing_business_predictions":1}`)
		case "/admin/predictions":
			_, _ = io.WriteString(w, `{"predictions":[
				{"id":1,"prediction_type":"new_business","prediction_result":{"prediction":1,"success_probability":0.7}},
				{"id":2,"prediction_type":"existing_business","prediction_result":{"prediction":"Failure","success_probability":0.3}}]}`)
		case "/admin/stats":
			_, _ = io.WriteString(w, `{"total_predictions":2}`)
		default:
			w.WriteHeader(nethttp.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, upstream string) *Server {
	log := logger.NewTestLogger(t)
	resolver := http.Static(upstream)

	predictionHandler := func(variant models.Variant) *submitprediction.Handler {
		cfg := submitprediction.DefaultConfig(variant)
		cfg.LocalURL, cfg.DeployedURL = upstream, upstream
		cfg.PrimaryTimeout, cfg.FallbackTimeout = 2*time.Second, 2*time.Second
		h, err := submitprediction.NewHandler(submitprediction.HandlerOptions{CustomConfig: cfg, Resolver: resolver, Logger: log})
		require.NoError(t, err)
		return h
	}

	reportCfg := exportreport.DefaultConfig()
	reportCfg.Compress = false
	report, err := exportreport.NewHandler(exportreport.HandlerOptions{
		CustomConfig: reportCfg,
		Logger:       log,
		Clock:        func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	require.NoError(t, err)

	feedback, err := submitfeedback.NewHandler(submitfeedback.HandlerOptions{Resolver: resolver, Logger: log})
	require.NoError(t, err)

	dashCfg := refreshdashboard.DefaultConfig()
	dashCfg.BaseURL = upstream
	dashboard, err := refreshdashboard.NewHandler(refreshdashboard.HandlerOptions{CustomConfig: dashCfg, Logger: log})
	require.NoError(t, err)

	return New(config.ServerConfig{Address: ":0"}, Dependencies{
		PreInvestment:    predictionHandler(models.VariantPreInvestment),
		ExistingBusiness: predictionHandler(models.VariantExistingBusiness),
		Render:           renderresult.NewHandler(log),
		Recommendations:  formatrecommendations.NewHandler(log),
		Report:           report,
		Feedback:         feedback,
		Dashboard:        dashboard,
		Catalog:          Activities("test"),
		Logger:           log,
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const preInvestmentFields = `{
  "business_capital": "1,200,000",
  "owner_age": 30,
  "owner_business_experience": "7",
  "capital_source": "Personal Savings",
  "business_sector": "Manufacturing",
  "number_of_employees": "0",
  "business_location": "RULINDO",
  "entity_type": "COOPERATIVE",
  "owner_gender": "M",
  "education_level_numeric": "0"
}`

// ==========================
// Tests
// ==========================

func TestHealthAndOptions(t *testing.T) {
	s := newTestServer(t, "http://unused")

	rec := do(t, s, nethttp.MethodGet, "/health", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = do(t, s, nethttp.MethodGet, "/api/options", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var opts map[string][]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Len(t, opts["entity_types"], 7)

	rec = do(t, s, nethttp.MethodGet, "/metrics", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestActivities(t *testing.T) {
	s := newTestServer(t, "http://unused")

	rec := do(t, s, nethttp.MethodGet, "/api/activities", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	var catalog registry.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Equal(t, "test", catalog.Version)
	require.Len(t, catalog.Activities, 6)
	assert.Equal(t, refreshdashboard.TaskType, catalog.Activities[0].TaskType)

	submit, ok := catalog.Lookup(submitprediction.TaskType)
	require.True(t, ok)
	assert.Equal(t, "prediction", submit.Category)
	assert.Contains(t, submit.ErrorCodes, "FORM_INVALID")

	rec = do(t, s, nethttp.MethodGet, "/api/activities?category=presentation", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var presentation registry.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presentation))
	require.Len(t, presentation.Activities, 3)
	assert.Equal(t, exportreport.TaskType, presentation.Activities[0].TaskType)
}

func TestPredict_NewBusiness(t *testing.T) {
	s := newTestServer(t, newUpstream(t).URL)

	rec := do(t, s, nethttp.MethodPost, "/api/predict/new-business", `{"fields":`+preInvestmentFields+`}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Result          models.PredictionResult      `json:"result"`
		View            renderresult.View            `json:"view"`
		Recommendations []formatrecommendations.Card `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.62, resp.Result.SuccessProbability)
	assert.True(t, resp.View.Classification.IsSuccess)
	assert.Equal(t, "62.0", resp.View.Percentage)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Revenue Growth Strategy", resp.Recommendations[0].Title)
}

func TestPredict_FormInvalid(t *testing.T) {
	s := newTestServer(t, newUpstream(t).URL)

	rec := do(t, s, nethttp.MethodPost, "/api/predict/new-business", `{"fields":{"owner_age":"12"}}`)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)

	var detail apperrors.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Validation Error", detail.Type)
	assert.NotEmpty(t, detail.Issues)
}

func TestPredict_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, newUpstream(t).URL)

	body := `{"fields":{"business_capital":"5,000,000","business_sector":"Construction","entity_type":"PARTNERSHIP",
		"business_location":"HUYE","capital_source":"Bank Loan","number_of_employees":"3"}}`
	rec := do(t, s, nethttp.MethodPost, "/api/predict/existing-business", body)
	assert.Equal(t, nethttp.StatusBadGateway, rec.Code)

	var detail apperrors.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "HTTP 503 Error", detail.Type)
	assert.Equal(t, "Server Error: Internal server error occurred", detail.Message)
}

func TestPredict_BadRequests(t *testing.T) {
	s := newTestServer(t, "http://unused")

	assert.Equal(t, nethttp.StatusNotFound, do(t, s, nethttp.MethodPost, "/api/predict/other", `{}`).Code)
	assert.Equal(t, nethttp.StatusBadRequest, do(t, s, nethttp.MethodPost, "/api/predict/new-business", `not json`).Code)
	assert.Equal(t, nethttp.StatusBadRequest, do(t, s, nethttp.MethodPost, "/api/predict/new-business", `{}`).Code)
}

func TestReport(t *testing.T) {
	s := newTestServer(t, "http://unused")

	body := `{"fields":` + preInvestmentFields + `,"result":` + predictBody + `}`
	rec := do(t, s, nethttp.MethodPost, "/api/report/new-business", body)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="SME-PreInvestment-Report-2025-01-02T030405Z.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = do(t, s, nethttp.MethodPost, "/api/report/new-business", `{"fields":{}}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t, newUpstream(t).URL)

	rec := do(t, s, nethttp.MethodPost, "/api/feedback", `{"message":"Helpful","prediction_type":"new_business"}`)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"submitted":true,"message":"Thank you for your feedback!"}`, rec.Body.String())

	rec = do(t, s, nethttp.MethodPost, "/api/feedback", `{"message":"  "}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = do(t, s, nethttp.MethodPost, "/api/feedback", `{"message":"x","prediction_type":"bogus"}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = do(t, s, nethttp.MethodPost, "/api/feedback", `{"message":"x","email":"not-an-email"}`)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
}

func TestAdminDashboard(t *testing.T) {
	s := newTestServer(t, newUpstream(t).URL)

	rec := do(t, s, nethttp.MethodGet, "/api/admin/dashboard?type=new_business", "")
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Predictions []models.PredictionRecord `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Predictions, 1)
	assert.Equal(t, models.RecordID("1"), out.Predictions[0].ID)

	rec = do(t, s, nethttp.MethodPost, "/api/admin/refresh", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, "http://unused")

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/options", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
