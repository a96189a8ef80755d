package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"campusfix/internal/database"
	"campusfix/internal/lifecycle"
	"campusfix/internal/metrics"
	"campusfix/internal/models"
	"campusfix/internal/service"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var in models.BookingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.bookings.CreateBooking(r.Context(), in)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		s.logger.Error().Err(err).Msg("create booking failed")
		writeError(w, http.StatusInternalServerError, "could not create booking")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleBookingSubresource routes /api/v1/bookings/{code}/status and
// /api/v1/bookings/{code}/feedback.
func (s *HTTPServer) handleBookingSubresource(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	code, sub := parts[0], parts[1]
	switch sub {
	case "status":
		s.handleStatus(w, r, code)
	case "feedback":
		s.handleFeedback(w, r, code)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request, code string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := s.lookup.Find(r.Context(), code)
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("status lookup failed")
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	if !result.Found {
		metrics.IncStatusLookup("not_found")
		writeJSON(w, http.StatusNotFound, result)
		return
	}

	metrics.IncStatusLookup(string(result.Source))
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleFeedback(w http.ResponseWriter, r *http.Request, code string) {
	switch r.Method {
	case http.MethodGet:
		entries, err := s.feedback.ListFeedback(r.Context(), code)
		if err != nil {
			s.logger.Error().Err(err).Str("code", code).Msg("list feedback failed")
			writeError(w, http.StatusInternalServerError, "could not list feedback")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"feedback": entries})
	case http.MethodPost:
		var body struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		fb, err := s.feedback.AddFeedback(r.Context(), code, body.Rating, body.Comment)
		switch {
		case errors.Is(err, database.ErrBookingNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, service.ErrBookingNotCompleted):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			s.logger.Error().Err(err).Str("code", code).Msg("add feedback failed")
			writeError(w, http.StatusInternalServerError, "could not save feedback")
		default:
			writeJSON(w, http.StatusCreated, fb)
		}
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Device  string `json:"device"`
		Issue   string `json:"issue"`
		Urgency string `json:"urgency"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Issue) == "" {
		writeError(w, http.StatusBadRequest, "issue is required")
		return
	}

	urgency, err := models.ParseUrgency(body.Urgency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.catalog.Estimate(body.Device, body.Issue, urgency))
}

// handleEvents records page views and click-through events. Analytics
// failures never surface to the caller.
func (s *HTTPServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.analytics == nil {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	var body struct {
		Action string `json:"action"`
		Label  string `json:"label"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	if body.Action == "page_view" {
		if _, err := s.analytics.AddPageView(r.Context()); err != nil {
			s.logger.Warn().Err(err).Msg("page view not recorded")
		}
	} else {
		event := models.Event{Action: body.Action, Label: body.Label, Timestamp: time.Now()}
		if err := s.analytics.RecordEvent(r.Context(), event); err != nil {
			s.logger.Warn().Err(err).Str("action", body.Action).Msg("event not recorded")
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// handleAdminAdvance serves POST /api/v1/admin/bookings/{code}/advance.
func (s *HTTPServer) handleAdminAdvance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/admin/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "advance" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	code := parts[0]

	var body struct {
		Stage string `json:"stage"`
		Note  string `json:"note"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	stage, err := lifecycle.Parse(body.Stage)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.AdvanceStage(r.Context(), code, stage, body.Note)
	switch {
	case errors.Is(err, database.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, lifecycle.ErrStageRegression):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		s.logger.Error().Err(err).Str("code", code).Msg("stage advance failed")
		writeError(w, http.StatusInternalServerError, "could not update booking")
	default:
		writeJSON(w, http.StatusOK, booking)
	}
}

func (s *HTTPServer) handleCounterRepair(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	value, err := s.bookings.RepairCounter(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("counter repair failed")
		writeError(w, http.StatusInternalServerError, "could not repair counter")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"counter": value})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.bookings.Stats(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("stats failed")
		writeError(w, http.StatusInternalServerError, "could not load stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleExport builds an xlsx report for the requested period and
// streams the file back. Defaults to the last 30 days.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "exports are not configured")
		return
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if raw := strings.TrimSpace(r.URL.Query().Get("start")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date; expected YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("end")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date; expected YYYY-MM-DD")
			return
		}
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end date is before start date")
		return
	}

	filePath, err := s.exporter.BookingsReport(r.Context(), start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "could not build export")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=bookings.xlsx")
	http.ServeFile(w, r, filePath)
}
