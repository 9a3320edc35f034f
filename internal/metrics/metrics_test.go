package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIdempotent(t *testing.T) {
	// Повторная регистрация не должна паниковать.
	Register()
	Register()
}

func TestCountersIncrement(t *testing.T) {
	Register()

	before := testutil.ToFloat64(BookingsCreated)
	BookingsCreated.Inc()
	after := testutil.ToFloat64(BookingsCreated)

	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %f -> %f", before, after)
	}
}

func TestLabeledCounters(t *testing.T) {
	Register()

	BookingLookups.WithLabelValues("found").Inc()
	BookingLookups.WithLabelValues("miss").Inc()
	BookingLookups.WithLabelValues("miss").Inc()

	if v := testutil.ToFloat64(BookingLookups.WithLabelValues("miss")); v < 2 {
		t.Errorf("expected miss counter >= 2, got %f", v)
	}
}
