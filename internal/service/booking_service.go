package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"staybook/internal/catalog"
	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/metrics"
	"staybook/internal/models"
)

// BookingRequest is the data a guest submits after verifying their email.
type BookingRequest struct {
	SessionID       string    `json:"session_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Place           string    `json:"place"`
	HotelName       string    `json:"hotel_name"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Guests          int       `json:"guests"`
	SpecialRequests string    `json:"special_requests"`
	TermsAccepted   bool      `json:"terms_accepted"`
}

type BookingService struct {
	bookings domain.BookingRepository
	sessions domain.SessionRepository
	mailer   domain.Mailer
	codes    domain.CodeGenerator
	eventBus domain.EventPublisher
	exporter domain.ExportEnqueuer
	hotels   *catalog.Catalog
	logger   *zerolog.Logger
}

func NewBookingService(bookings domain.BookingRepository, sessions domain.SessionRepository, mailer domain.Mailer, codes domain.CodeGenerator, eventBus domain.EventPublisher, exporter domain.ExportEnqueuer, hotels *catalog.Catalog, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		sessions: sessions,
		mailer:   mailer,
		codes:    codes,
		eventBus: eventBus,
		exporter: exporter,
		hotels:   hotels,
		logger:   logger,
	}
}

// Submit validates the request against the verified session and appends the
// booking. Когда запись уже сохранена, а письмо с подтверждением отправить
// не удалось, возвращается и бронирование, и ErrConfirmationNotSent: заявка
// принята, гость просто не уведомлён.
func (s *BookingService) Submit(ctx context.Context, req *BookingRequest) (*models.Booking, error) {
	session, err := s.sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load verification session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.Confirmed {
		return nil, ErrNotVerified
	}

	if err := s.validate(req, session); err != nil {
		return nil, err
	}

	hotel, ok := s.hotels.GetByName(req.HotelName)
	if !ok {
		return nil, ErrUnknownHotel
	}

	code, err := s.codes.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate access code: %w", err)
	}

	booking := &models.Booking{
		AccessCode:      code,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           session.Email,
		Phone:           strings.TrimSpace(req.Phone),
		Place:           strings.TrimSpace(req.Place),
		HotelName:       hotel.Name,
		Category:        hotel.Category,
		Price:           hotel.Price,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		DurationDays:    durationDays(req.CheckIn, req.CheckOut),
		Guests:          req.Guests,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		CreatedAt:       time.Now(),
	}

	if err := s.bookings.AppendBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("append booking: %w", err)
	}
	metrics.BookingsCreated.Inc()

	// Сессия одноразовая: после успешной заявки она больше не нужна.
	if err := s.sessions.DeleteSession(ctx, req.SessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("delete used session failed")
	}

	notified := true
	if err := s.sendConfirmation(ctx, booking); err != nil {
		notified = false
		metrics.EmailsFailed.WithLabelValues("confirmation").Inc()
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("confirmation email send failed")
	} else {
		metrics.EmailsSent.WithLabelValues("confirmation").Inc()
	}

	s.publishEvent(events.EventBookingCreated, booking, notified)
	s.enqueueExport(ctx)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("hotel", booking.HotelName).
		Str("email", booking.Email).
		Bool("notified", notified).
		Msg("booking created")

	if !notified {
		return booking, ErrConfirmationNotSent
	}
	return booking, nil
}

// FindByCode returns every booking stored under the access code, oldest
// first. Коды не уникальны, поэтому результатов может быть несколько.
func (s *BookingService) FindByCode(ctx context.Context, code string) ([]models.Booking, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidAccessCode
	}

	found, err := s.bookings.FindByCode(ctx, code)
	if err != nil {
		metrics.BookingLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("find bookings: %w", err)
	}

	if len(found) == 0 {
		metrics.BookingLookups.WithLabelValues("miss").Inc()
	} else {
		metrics.BookingLookups.WithLabelValues("found").Inc()
	}
	return found, nil
}

// ListAll returns the full ledger in append order.
func (s *BookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.LoadAll(ctx)
}

func (s *BookingService) Count(ctx context.Context) (int64, error) {
	return s.bookings.CountBookings(ctx)
}

// EnqueueExport schedules a ledger snapshot on demand.
func (s *BookingService) EnqueueExport(ctx context.Context) error {
	if s.exporter == nil {
		return errors.New("export worker is not configured")
	}
	return s.exporter.EnqueueExport(ctx)
}

func (s *BookingService) validate(req *BookingRequest, session *models.VerificationSession) error {
	if !req.TermsAccepted {
		return ErrTermsNotAccepted
	}

	required := []struct {
		name  string
		value string
	}{
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"place", req.Place},
		{"hotel_name", req.HotelName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	if !strings.EqualFold(strings.TrimSpace(req.Email), session.Email) {
		return ErrEmailMismatch
	}

	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return fmt.Errorf("%w: check_in/check_out", ErrMissingField)
	}
	if req.CheckOut.Before(req.CheckIn) {
		return ErrInvalidDates
	}

	if req.Guests < models.MinGuests || req.Guests > models.MaxGuests {
		return ErrInvalidGuests
	}

	return nil
}

func (s *BookingService) sendConfirmation(ctx context.Context, b *models.Booking) error {
	subject := fmt.Sprintf("Booking confirmed: %s", b.HotelName)
	body := fmt.Sprintf(
		"Dear %s %s,\n\nYour booking at %s (%s) is confirmed.\n\nCheck-in: %s\nCheck-out: %s\nNights: %d\nGuests: %d\n\nYour access code is %s. Keep it to look up your booking later.\n",
		b.FirstName, b.LastName,
		b.HotelName, b.Place,
		b.CheckIn.Format("2006-01-02"),
		b.CheckOut.Format("2006-01-02"),
		b.DurationDays,
		b.Guests,
		b.AccessCode,
	)
	return s.mailer.Send(ctx, b.Email, subject, body)
}

func (s *BookingService) publishEvent(eventType string, b *models.Booking, notified bool) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  b.ID,
		AccessCode: b.AccessCode,
		GuestName:  strings.TrimSpace(b.FirstName + " " + b.LastName),
		HotelName:  b.HotelName,
		Place:      b.Place,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Guests:     b.Guests,
		Notified:   notified,
		CreatedAt:  b.CreatedAt,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", b.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.EnqueueExport(ctx); err != nil {
		s.logger.Error().Err(err).Msg("export enqueue error")
	}
}

// durationDays считает число ночей между датами заезда и выезда.
func durationDays(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}
