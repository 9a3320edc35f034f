package models

const (
	// CodeLength число цифр в коде подтверждения и коде доступа
	CodeLength = 6

	// DefaultCodeTTLMinutes срок действия кода подтверждения
	DefaultCodeTTLMinutes = 10

	// MinGuests / MaxGuests границы количества гостей в заявке
	MinGuests = 1
	MaxGuests = 10

	// WorkerQueueSize размер очереди воркера экспорта
	WorkerQueueSize = 128

	// SessionKeyPrefix префикс ключей сессий в Redis
	SessionKeyPrefix = "verify_session:"
)
