package telegram

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"staybook/internal/events"
)

// Sender отправляет сообщение в Telegram. Выделен в интерфейс ради тестов.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier пересылает менеджерам уведомления о новых бронированиях.
type Notifier struct {
	bot      Sender
	managers []int64
	logger   *zerolog.Logger
}

func NewNotifier(token string, managers []int64, logger *zerolog.Logger) (*Notifier, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Notifier{bot: botAPI, managers: managers, logger: logger}, nil
}

// NewNotifierWithSender wires a custom sender, used in tests.
func NewNotifierWithSender(sender Sender, managers []int64, logger *zerolog.Logger) *Notifier {
	return &Notifier{bot: sender, managers: managers, logger: logger}
}

// Subscribe attaches the notifier to booking events on the bus.
func (n *Notifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.handleBookingCreated)
}

func (n *Notifier) handleBookingCreated(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("telegram: decode booking event")
		return err
	}

	text := fmt.Sprintf(
		"🏨 Новое бронирование #%d\n\nГость: %s\nОтель: %s (%s)\nЗаезд: %s\nВыезд: %s\nГостей: %d",
		payload.BookingID,
		payload.GuestName,
		payload.HotelName,
		payload.Place,
		payload.CheckIn.Format("02.01.2006"),
		payload.CheckOut.Format("02.01.2006"),
		payload.Guests,
	)
	if !payload.Notified {
		text += "\n\n⚠️ Письмо с подтверждением гостю не отправлено"
	}

	for _, chatID := range n.managers {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("telegram: send notification")
		}
	}
	return nil
}
