package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Метрики приложения. Регистрируются один раз через Register.
var (
	VerificationsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "verifications_started_total",
		Help:      "Number of verification sessions started",
	})

	VerificationsConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "verifications_confirmed_total",
		Help:      "Number of verification sessions confirmed",
	})

	EmailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "emails_sent_total",
		Help:      "Number of emails sent, by kind",
	}, []string{"kind"})

	EmailsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "emails_failed_total",
		Help:      "Number of email send failures, by kind",
	}, []string{"kind"})

	BookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "bookings_created_total",
		Help:      "Number of bookings appended to the ledger",
	})

	BookingLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "booking_lookups_total",
		Help:      "Number of booking lookups by access code, by outcome",
	}, []string{"outcome"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests, by path and status",
	}, []string{"path", "status"})

	ExportsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staybook",
		Name:      "exports_completed_total",
		Help:      "Number of export jobs processed, by outcome",
	}, []string{"outcome"})
)

var registerOnce sync.Once

// Register регистрирует метрики в реестре prometheus по умолчанию.
// Повторные вызовы безопасны.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			VerificationsStarted,
			VerificationsConfirmed,
			EmailsSent,
			EmailsFailed,
			BookingsCreated,
			BookingLookups,
			HTTPRequests,
			ExportsCompleted,
		)
	})
}
