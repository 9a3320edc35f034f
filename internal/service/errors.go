package service

import "errors"

// Ошибки уровня сервисов. Transport слой маппит их на HTTP-статусы.
var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrSessionNotFound     = errors.New("verification session not found")
	ErrCodeMismatch        = errors.New("verification code does not match")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrNotVerified         = errors.New("email is not verified")
	ErrTermsNotAccepted    = errors.New("terms and conditions not accepted")
	ErrMissingField        = errors.New("required field missing")
	ErrEmailMismatch       = errors.New("email does not match verified session")
	ErrUnknownHotel        = errors.New("unknown hotel")
	ErrInvalidDates        = errors.New("check-out must not be before check-in")
	ErrInvalidGuests       = errors.New("guest count out of range")
	ErrInvalidAccessCode   = errors.New("invalid access code")
	ErrConfirmationNotSent = errors.New("booking saved but confirmation email was not sent")
)
