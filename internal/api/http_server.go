package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"staybook/internal/catalog"
	"staybook/internal/config"
	"staybook/internal/metrics"
	"staybook/internal/service"
)

// HTTPServer exposes the booking workflow over HTTP.
type HTTPServer struct {
	cfg          config.APIConfig
	verification *service.VerificationService
	bookings     *service.BookingService
	hotels       *catalog.Catalog
	server       *http.Server
	auth         *HTTPAuth
	logger       *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, verification *service.VerificationService, bookings *service.BookingService, hotels *catalog.Catalog, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:          cfg,
		verification: verification,
		bookings:     bookings,
		hotels:       hotels,
		logger:       logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/v1/verification/start", srv.handleVerificationStart)
	mux.HandleFunc("/api/v1/verification/confirm", srv.handleVerificationConfirm)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/hotels", srv.handleHotels)
	mux.HandleFunc("/api/v1/admin/bookings", srv.handleAdminBookings)
	mux.HandleFunc("/api/v1/admin/export", srv.handleAdminExport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
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

// Handler returns the full middleware chain, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleVerificationStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.verification.Start(r.Context(), body.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	// Код в ответ не попадает: он уходит только на почту.
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": session.ID,
		"email":      session.Email,
		"expires_in": int(s.verification.CodeTTL().Seconds()),
	})
}

func (s *HTTPServer) handleVerificationConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		SessionID string `json:"session_id"`
		Code      string `json:"code"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.verification.Confirm(r.Context(), body.SessionID, body.Code)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"email":      session.Email,
		"confirmed":  session.Confirmed,
	})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleBookingSubmit(w, r)
	case http.MethodGet:
		s.handleBookingLookup(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingSubmit(w http.ResponseWriter, r *http.Request) {
	var req service.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Submit(r.Context(), &req)
	if err != nil && !errors.Is(err, service.ErrConfirmationNotSent) {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"booking":  booking,
		"notified": err == nil,
	})
}

func (s *HTTPServer) handleBookingLookup(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	found, err := s.bookings.FindByCode(r.Context(), code)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": found})
}

func (s *HTTPServer) handleHotels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	location := r.URL.Query().Get("location")
	var maxPrice int64
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		p, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || p < 0 {
			writeError(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		maxPrice = p
	}

	writeJSON(w, http.StatusOK, map[string]any{"hotels": s.hotels.Filter(location, maxPrice)})
}

func (s *HTTPServer) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	all, err := s.bookings.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":    len(all),
		"bookings": all,
	})
}

func (s *HTTPServer) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.bookings.EnqueueExport(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to schedule export")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(recorder.status)).Inc()
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCodeExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, service.ErrNotVerified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrCodeMismatch),
		errors.Is(err, service.ErrTermsNotAccepted),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrEmailMismatch),
		errors.Is(err, service.ErrUnknownHotel),
		errors.Is(err, service.ErrInvalidDates),
		errors.Is(err, service.ErrInvalidGuests),
		errors.Is(err, service.ErrInvalidAccessCode):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
