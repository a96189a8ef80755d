package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campusfix/internal/config"
	"campusfix/internal/domain"
	"campusfix/internal/export"
	"campusfix/internal/metrics"
	"campusfix/internal/quote"
	"campusfix/internal/service"
	"campusfix/internal/status"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the public booking API and the authenticated admin
// surface on a single port.
type HTTPServer struct {
	cfg       config.APIConfig
	bookings  *service.BookingService
	feedback  *service.FeedbackService
	lookup    *status.Lookup
	catalog   *quote.Catalog
	analytics domain.AnalyticsRepository
	exporter  *export.Exporter
	logger    *zerolog.Logger
	server    *http.Server
}

func NewHTTPServer(
	cfg config.APIConfig,
	bookings *service.BookingService,
	feedback *service.FeedbackService,
	lookup *status.Lookup,
	catalog *quote.Catalog,
	analytics domain.AnalyticsRepository,
	exporter *export.Exporter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:       cfg,
		bookings:  bookings,
		feedback:  feedback,
		lookup:    lookup,
		catalog:   catalog,
		analytics: analytics,
		exporter:  exporter,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingSubresource)
	mux.HandleFunc("/api/v1/quotes", srv.handleQuote)
	mux.HandleFunc("/api/v1/events", srv.handleEvents)
	mux.HandleFunc("/api/v1/admin/bookings/", srv.handleAdminAdvance)
	mux.HandleFunc("/api/v1/admin/counter/repair", srv.handleCounterRepair)
	mux.HandleFunc("/api/v1/admin/stats", srv.handleStats)
	mux.HandleFunc("/api/v1/admin/export", srv.handleExport)

	auth := NewHTTPAuth(cfg)
	handler := srv.loggingMiddleware(auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
