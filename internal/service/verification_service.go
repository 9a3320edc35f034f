package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/metrics"
	"staybook/internal/models"
)

// VerificationService управляет сессиями подтверждения email.
// Каждая сессия живёт не дольше срока действия кода.
type VerificationService struct {
	sessions domain.SessionRepository
	mailer   domain.Mailer
	codes    domain.CodeGenerator
	eventBus domain.EventPublisher
	codeTTL  time.Duration
	logger   *zerolog.Logger
}

func NewVerificationService(sessions domain.SessionRepository, mailer domain.Mailer, codes domain.CodeGenerator, eventBus domain.EventPublisher, codeTTL time.Duration, logger *zerolog.Logger) *VerificationService {
	if codeTTL <= 0 {
		codeTTL = models.DefaultCodeTTLMinutes * time.Minute
	}
	return &VerificationService{
		sessions: sessions,
		mailer:   mailer,
		codes:    codes,
		eventBus: eventBus,
		codeTTL:  codeTTL,
		logger:   logger,
	}
}

// CodeTTL returns the validity window applied to issued codes.
func (s *VerificationService) CodeTTL() time.Duration {
	return s.codeTTL
}

// Start issues a fresh verification code for the address and emails it.
// Session не сохраняется, если письмо отправить не удалось: без письма код
// всё равно никто не введёт.
func (s *VerificationService) Start(ctx context.Context, email string) (*models.VerificationSession, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	code, err := s.codes.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s.\nIt expires in %d minutes.", code, int(s.codeTTL.Minutes()))

	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		metrics.EmailsFailed.WithLabelValues("verification").Inc()
		s.logger.Error().Err(err).Str("email", email).Msg("verification email send failed")
		return nil, fmt.Errorf("send verification email: %w", err)
	}
	metrics.EmailsSent.WithLabelValues("verification").Inc()

	session := &models.VerificationSession{
		ID:       uuid.NewString(),
		Email:    email,
		Code:     code,
		IssuedAt: time.Now(),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save verification session: %w", err)
	}

	metrics.VerificationsStarted.Inc()
	s.publishEvent(events.EventVerificationStarted, session)

	s.logger.Info().Str("session_id", session.ID).Str("email", email).Msg("verification started")
	return session, nil
}

// Confirm checks the submitted code against the session. On mismatch the
// session keeps waiting for another attempt; on expiry it is dropped.
func (s *VerificationService) Confirm(ctx context.Context, sessionID, code string) (*models.VerificationSession, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load verification session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.Expired(time.Now(), s.codeTTL) {
		// Просроченную сессию держать незачем.
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("delete expired session failed")
		}
		return nil, ErrCodeExpired
	}

	if strings.TrimSpace(code) != session.Code {
		return nil, ErrCodeMismatch
	}

	session.Confirmed = true
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save confirmed session: %w", err)
	}

	metrics.VerificationsConfirmed.Inc()
	s.publishEvent(events.EventVerificationConfirmed, session)

	s.logger.Info().Str("session_id", session.ID).Str("email", session.Email).Msg("verification confirmed")
	return session, nil
}

func (s *VerificationService) publishEvent(eventType string, session *models.VerificationSession) {
	if s.eventBus == nil {
		return
	}

	payload := events.VerificationEventPayload{
		SessionID: session.ID,
		Email:     session.Email,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

// validEmail делает минимальную проверку формата, без RFC-педантизма.
func validEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t\n") {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
