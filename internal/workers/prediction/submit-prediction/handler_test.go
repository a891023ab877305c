package submitprediction

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(variant models.Variant, local, deployed string) *Config {
	cfg := DefaultConfig(variant)
	cfg.LocalURL = local
	cfg.DeployedURL = deployed
	cfg.HealthTimeout = 500 * time.Millisecond
	cfg.PrimaryTimeout = 2 * time.Second
	cfg.FallbackTimeout = 3 * time.Second
	return cfg
}

func newTestHandler(t *testing.T, cfg *Config, resolver http.BaseURLResolver) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Resolver:     resolver,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func preInvestmentFields() map[string]string {
	return map[string]string{
		"business_capital":          "1,200,000",
		"owner_age":                 "30",
		"owner_business_experience": "7",
		"capital_source":            "Personal Savings",
		"business_sector":           "Manufacturing",
		"number_of_employees":       "0",
		"business_location":         "RULINDO",
		"entity_type":               "COOPERATIVE",
		"owner_gender":              "M",
		"education_level_numeric":   "0",
	}
}

func existingBusinessFields() map[string]string {
	return map[string]string{
		"business_capital":     "25,000,000",
		"business_sector":      "Manufacturing",
		"entity_type":          "PRIVATE CORPORATION",
		"business_location":    "GASABO",
		"capital_source":       "Bank Loan",
		"number_of_employees":  "15",
		"turnover_first_year":  "12,000,000",
		"turnover_fourth_year": "30,000,000",
	}
}

const preInvestmentResponse = `{
	"success": true,
	"prediction": 1,
	"prediction_label": "Likely to Succeed",
	"success_probability": 0.78,
	"confidence_level": "High",
	"recommendations": {"action_items": ["Increase sales channels"], "key_strengths": ["Solid capital"]}
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_PreInvestmentPayload(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte(preInvestmentResponse))
	}))
	defer server.Close()

	h := newTestHandler(t, createTestConfig(models.VariantPreInvestment, server.URL, server.URL), http.Static(server.URL))

	out, err := h.Execute(context.Background(), &Input{Fields: preInvestmentFields()})

	require.NoError(t, err)
	assert.Equal(t, float64(1200000), received["business_capital"])
	assert.Equal(t, float64(0), received["education_level_numeric"])
	assert.Equal(t, "RULINDO", received["business_location"])
	require.NotNil(t, out.Result.Prediction.Code)
	assert.Equal(t, 1, *out.Result.Prediction.Code)
	assert.Equal(t, []string{"Increase sales channels", "Solid capital"}, out.Result.Recommendations.Flatten())

	profile, ok := out.Profile.(*models.PreInvestmentProfile)
	require.True(t, ok)
	assert.Equal(t, int64(1200000), profile.BusinessCapital)
}

func TestHandler_Execute_ExistingBusinessPredictedFailureIsNotAnError(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/predict-existing-business", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte(`{
			"success": false,
			"prediction": "Failure",
			"success_probability": 0.22,
			"confidence": 0.78,
			"recommendations": ["Diversify revenue streams"],
			"risk_factors": ["Declining employment"]
		}`))
	}))
	defer server.Close()

	h := newTestHandler(t, createTestConfig(models.VariantExistingBusiness, server.URL, server.URL), http.Static(server.URL))

	out, err := h.Execute(context.Background(), &Input{Fields: existingBusinessFields()})

	require.NoError(t, err)
	assert.Equal(t, "Failure", out.Result.Prediction.String())
	assert.Equal(t, float64(0), received["turnover_second_year"])
	assert.Equal(t, float64(30000000), received["turnover_fourth_year"])
	assert.Equal(t, float64(0), received["employment_first_year"])
}

func TestHandler_Submit_APIRejectionListsIssues(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte(`{
			"success": false,
			"detail": [
				{"loc": ["body", "owner_age"], "msg": "ensure this value is greater than 17"},
				{"loc": ["body", "capital_source"], "msg": "unknown category"}
			]
		}`))
	}))
	defer server.Close()

	h := newTestHandler(t, createTestConfig(models.VariantPreInvestment, server.URL, server.URL), http.Static(server.URL))
	c := h.NewForm()
	require.NoError(t, c.Load(preInvestmentFields()))

	_, err := h.Submit(context.Background(), c)

	require.Error(t, err)
	outcome := c.Outcome()
	require.NotNil(t, outcome)
	require.NotNil(t, outcome.Error)
	assert.Nil(t, outcome.Result)
	assert.Equal(t, "API Error", outcome.Error.Type)
	assert.Contains(t, outcome.Error.Message, "body.owner_age - ensure this value is greater than 17")
	assert.Contains(t, outcome.Error.Message, "body.capital_source - unknown category")
}

func TestHandler_Submit_MissingPredictionIsRejected(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "Model not loaded"}`))
	}))
	defer server.Close()

	h := newTestHandler(t, createTestConfig(models.VariantPreInvestment, server.URL, server.URL), http.Static(server.URL))

	_, err := h.Execute(context.Background(), &Input{Fields: preInvestmentFields()})

	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAPIRejected, stdErr.Code)
	assert.Equal(t, "Model not loaded", stdErr.Details)
}

func TestHandler_Submit_InvalidFormNeverCallsAPI(t *testing.T) {
	var calls int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	h := newTestHandler(t, createTestConfig(models.VariantPreInvestment, server.URL, server.URL), http.Static(server.URL))
	fields := preInvestmentFields()
	fields["owner_age"] = "12"

	_, err := h.Execute(context.Background(), &Input{Fields: fields})

	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeFormInvalid, stdErr.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestHandler_Execute_UnknownField(t *testing.T) {
	h := newTestHandler(t, createTestConfig(models.VariantPreInvestment, "http://a", "http://b"), http.Static("http://a"))
	fields := preInvestmentFields()
	fields["favourite_colour"] = "blue"

	_, err := h.Execute(context.Background(), &Input{Fields: fields})
	require.Error(t, err)

	_, err = h.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrInputInvalid)
}

// ==========================
// Fallback Tests
// ==========================

func TestHandler_FallsBackToDeployedOnServerUnavailable(t *testing.T) {
	var localPosts, deployedPosts int32
	local := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method == nethttp.MethodHead {
			w.WriteHeader(nethttp.StatusOK)
			return
		}
		atomic.AddInt32(&localPosts, 1)
		w.WriteHeader(nethttp.StatusServiceUnavailable)
	}))
	defer local.Close()

	deployed := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(&deployedPosts, 1)
		_, _ = w.Write([]byte(preInvestmentResponse))
	}))
	defer deployed.Close()

	h := newTestHandler(t, createTestConfig(models.VariantPreInvestment, local.URL, deployed.URL), nil)

	out, err := h.Execute(context.Background(), &Input{Fields: preInvestmentFields()})

	require.NoError(t, err)
	assert.InDelta(t, 0.78, out.Result.SuccessProbability, 1e-9)
	assert.Equal(t, int32(1), atomic.LoadInt32(&localPosts))
	assert.Equal(t, int32(1), atomic.LoadInt32(&deployedPosts))
}

func TestHandler_ValidationErrorDoesNotFallBack(t *testing.T) {
	var deployedPosts int32
	local := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method == nethttp.MethodHead {
			return
		}
		w.WriteHeader(nethttp.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","owner_age"],"msg":"field required"}]}`))
	}))
	defer local.Close()

	deployed := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(&deployedPosts, 1)
	}))
	defer deployed.Close()

	h := newTestHandler(t, createTestConfig(models.VariantPreInvestment, local.URL, deployed.URL), nil)
	c := h.NewForm()
	require.NoError(t, c.Load(preInvestmentFields()))

	_, err := h.Submit(context.Background(), c)

	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&deployedPosts))
	assert.Equal(t, "HTTP 422 Error", c.Outcome().Error.Type)
	assert.Contains(t, c.Outcome().Error.Message, "Validation Error: Please check your input data")
	assert.Contains(t, c.Outcome().Error.Message, "• body.owner_age - field required")
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_Execute_DecimalFieldsFromJSON(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte(`{"success": true, "prediction": "Success", "success_probability": 0.7, "recommendations": []}`))
	}))
	defer server.Close()

	raw := map[string]interface{}{}
	for k, v := range existingBusinessFields() {
		raw[k] = v
	}
	raw["business_capital"] = 2500000.75
	raw["turnover_first_year"] = 1500.5
	input, err := ParseInput(map[string]interface{}{"fields": raw})
	require.NoError(t, err)

	h := newTestHandler(t, createTestConfig(models.VariantExistingBusiness, server.URL, server.URL), http.Static(server.URL))
	_, err = h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 2500000.75, received["business_capital"])
	assert.Equal(t, 1500.5, received["turnover_first_year"])
}

func TestParseInput(t *testing.T) {
	input, err := ParseInput(map[string]interface{}{
		"fields": map[string]interface{}{
			"owner_age":        float64(30),
			"business_capital": "1,200,000",
			"entity_type":      nil,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "30", input.Fields["owner_age"])
	assert.Equal(t, "1,200,000", input.Fields["business_capital"])
	assert.Equal(t, "", input.Fields["entity_type"])

	_, err = ParseInput(map[string]interface{}{"other": 1})
	assert.ErrorIs(t, err, ErrInputInvalid)

	_, err = ParseInput(map[string]interface{}{"fields": map[string]interface{}{"owner_age": true}})
	assert.ErrorIs(t, err, ErrInputInvalid)
}

func TestConfig_FromAppConfigAndValidate(t *testing.T) {
	cfg := createConfigFromAppConfig(nil, models.VariantExistingBusiness)
	assert.Equal(t, "/predict-existing-business", cfg.Path)
	assert.NoError(t, cfg.Validate())

	cfg.Variant = models.VariantGeneral
	assert.Error(t, cfg.Validate())
}
