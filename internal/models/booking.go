package models

import "time"

// Booking is one durable reservation record. Records are append-only: once
// written nothing mutates them, and the access code is the sole retrieval key.
type Booking struct {
	ID              int64     `json:"id"`
	AccessCode      string    `json:"access_code"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Place           string    `json:"place"`
	HotelName       string    `json:"hotel_name"`
	Category        string    `json:"category"`
	Price           int64     `json:"price"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	DurationDays    int       `json:"duration_days"`
	Guests          int       `json:"guests"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
