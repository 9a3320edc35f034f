package telegram

import (
	"io"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/events"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestBookingNotification(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	notifier := NewNotifierWithSender(sender, []int64{100, 200}, &logger)

	bus := events.NewEventBus()
	notifier.Subscribe(bus)

	payload := events.BookingEventPayload{
		BookingID: 7,
		GuestName: "Anna Petrova",
		HotelName: "Grand Palace",
		Place:     "Moscow",
		CheckIn:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		Guests:    2,
		Notified:  true,
	}
	require.NoError(t, bus.PublishJSON(events.EventBookingCreated, payload))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(100), sender.sent[0].ChatID)
	assert.Equal(t, int64(200), sender.sent[1].ChatID)
	assert.Contains(t, sender.sent[0].Text, "Anna Petrova")
	assert.Contains(t, sender.sent[0].Text, "Grand Palace")
	assert.NotContains(t, sender.sent[0].Text, "не отправлено")
}

func TestBookingNotificationUnnotifiedGuest(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	notifier := NewNotifierWithSender(sender, []int64{100}, &logger)

	bus := events.NewEventBus()
	notifier.Subscribe(bus)

	payload := events.BookingEventPayload{BookingID: 8, GuestName: "Ivan Orlov", Notified: false}
	require.NoError(t, bus.PublishJSON(events.EventBookingCreated, payload))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "не отправлено")
}
