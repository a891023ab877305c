// Package server exposes the prediction workflow over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sme-predictor/internal/common/config"
	"sme-predictor/internal/common/logger"
	refreshdashboard "sme-predictor/internal/workers/admin/refresh-dashboard"
	submitfeedback "sme-predictor/internal/workers/communication/submit-feedback"
	submitprediction "sme-predictor/internal/workers/prediction/submit-prediction"
	exportreport "sme-predictor/internal/workers/presentation/export-report"
	formatrecommendations "sme-predictor/internal/workers/presentation/format-recommendations"
	renderresult "sme-predictor/internal/workers/presentation/render-result"
	"sme-predictor/pkg/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the workers the routes delegate to.
type Dependencies struct {
	PreInvestment    *submitprediction.Handler
	ExistingBusiness *submitprediction.Handler
	Render           *renderresult.Handler
	Recommendations  *formatrecommendations.Handler
	Report           *exportreport.Handler
	Feedback         *submitfeedback.Handler
	Dashboard        *refreshdashboard.Handler
	// Catalog is served at /api/activities when set.
	Catalog *registry.Catalog
	Logger  logger.Logger
}

type Server struct {
	deps   Dependencies
	config config.ServerConfig
	logger logger.Logger
	router chi.Router
}

func New(cfg config.ServerConfig, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		deps:   deps,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "server"}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.options)
		if s.deps.Catalog != nil {
			r.Get("/activities", s.activities)
		}
		r.Post("/predict/{variant}", s.predict)
		r.Post("/report/{variant}", s.report)
		r.Post("/feedback", s.feedback)
		r.Get("/admin/dashboard", s.dashboard)
		r.Post("/admin/refresh", s.refresh)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.config.ReadTimeout),
		WriteTimeout: config.GetDuration(s.config.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.config.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := config.GetDuration(s.config.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down http server", nil)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request", map[string]interface{}{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"bytes":     ww.BytesWritten(),
			"duration":  time.Since(start).String(),
			"requestId": middleware.GetReqID(r.Context()),
		})
	})
}
