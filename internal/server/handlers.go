package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/form"
	"sme-predictor/internal/models"
	refreshdashboard "sme-predictor/internal/workers/admin/refresh-dashboard"
	submitfeedback "sme-predictor/internal/workers/communication/submit-feedback"
	submitprediction "sme-predictor/internal/workers/prediction/submit-prediction"
	exportreport "sme-predictor/internal/workers/presentation/export-report"
	formatrecommendations "sme-predictor/internal/workers/presentation/format-recommendations"
	renderresult "sme-predictor/internal/workers/presentation/render-result"
	"sme-predictor/pkg/registry"

	"github.com/go-chi/chi/v5"
)

const maxRequestBytes = 1 << 20

// PredictionResponse is returned by the predict routes.
type PredictionResponse struct {
	Variant         models.Variant               `json:"variant"`
	Profile         models.Profile               `json:"profile"`
	Result          *models.PredictionResult     `json:"result"`
	View            *renderresult.View           `json:"view"`
	Recommendations []formatrecommendations.Card `json:"recommendations"`
	Risks           []formatrecommendations.Card `json:"risks"`
}

type reportRequest struct {
	Fields map[string]interface{}   `json:"fields"`
	Result *models.PredictionResult `json:"result"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, form.Options())
}

func (s *Server) activities(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSON(w, http.StatusOK, s.deps.Catalog)
		return
	}
	writeJSON(w, http.StatusOK, &registry.Catalog{
		Version:    s.deps.Catalog.Version,
		Activities: s.deps.Catalog.ByCategory(category),
	})
}

func (s *Server) predictionHandler(r *http.Request) (*submitprediction.Handler, bool) {
	switch chi.URLParam(r, "variant") {
	case "new-business":
		return s.deps.PreInvestment, s.deps.PreInvestment != nil
	case "existing-business":
		return s.deps.ExistingBusiness, s.deps.ExistingBusiness != nil
	}
	return nil, false
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	h, ok := s.predictionHandler(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "unknown prediction variant")
		return
	}

	var body map[string]interface{}
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := submitprediction.ParseInput(body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.Execute(r.Context(), input)
	if err != nil {
		s.writeError(w, err)
		return
	}

	view, err := s.deps.Render.Execute(r.Context(), &renderresult.Input{
		Variant: out.Variant,
		Profile: out.Profile,
		Result:  out.Result,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	cards, err := s.deps.Recommendations.Execute(r.Context(), &formatrecommendations.Input{
		Recommendations: out.Result.Recommendations,
		RiskFactors:     out.Result.RiskFactors,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictionResponse{
		Variant:         out.Variant,
		Profile:         out.Profile,
		Result:          out.Result,
		View:            view.View,
		Recommendations: cards.Recommendations,
		Risks:           cards.Risks,
	})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	h, ok := s.predictionHandler(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "unknown report variant")
		return
	}

	var body reportRequest
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Result == nil {
		writeMessage(w, http.StatusBadRequest, "result is required")
		return
	}
	input, err := submitprediction.ParseInput(map[string]interface{}{"fields": body.Fields})
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	c := h.NewForm()
	if err := c.Load(input.Fields); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	profile, err := c.ToProfile()
	if err != nil {
		s.writeError(w, err)
		return
	}

	out, err := s.deps.Report.Execute(r.Context(), &exportreport.Input{
		Variant: h.Variant(),
		Profile: profile,
		Result:  body.Result,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc := out.Document
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

func (s *Server) feedback(w http.ResponseWriter, r *http.Request) {
	var input submitfeedback.Input
	if err := decodeBody(r, &input); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.PredictionType == "" {
		input.PredictionType = models.VariantGeneral
	}
	if !input.PredictionType.Valid() {
		writeMessage(w, http.StatusBadRequest, "invalid prediction_type")
		return
	}

	out, err := s.deps.Feedback.Execute(r.Context(), &input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.deps.Dashboard.Execute(r.Context(), &refreshdashboard.Input{
		TypeFilter: q.Get("type"),
		Search:     q.Get("search"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Dashboard.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ==========================
// Response helpers
// ==========================

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps a worker error to a status and an ErrorDetail body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	detail := apperrors.ToErrorDetail(err)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"errorId": detail.ID,
			"code":    detail.Code,
			"error":   err.Error(),
		})
	}
	writeJSON(w, status, detail)
}

func statusFor(err error) int {
	if errors.Is(err, submitprediction.ErrInputInvalid) || errors.Is(err, exportreport.ErrInputInvalid) {
		return http.StatusBadRequest
	}
	stdErr, ok := apperrors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch stdErr.Code {
	case apperrors.ErrCodeFormInvalid, apperrors.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeFeedbackEmpty:
		return http.StatusBadRequest
	case apperrors.ErrCodeReportFailed, apperrors.ErrCodeRequestSetupFailed, apperrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
