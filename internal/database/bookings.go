package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"staybook/internal/models"
)

const bookingColumns = `id, access_code, first_name, last_name, email, phone, place,
       hotel_name, category, price, check_in, check_out, duration_days, guests,
       special_requests, created_at`

// AppendBooking inserts a record inside a transaction so readers never see a
// partial row. The record's ID is filled in on success. Duplicate access
// codes are not rejected here: the store has no semantic constraints.
func (db *DB) AppendBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO bookings (
				access_code, first_name, last_name, email, phone, place, hotel_name,
				category, price, check_in, check_out, duration_days, guests,
				special_requests, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, query,
		booking.AccessCode,
		booking.FirstName,
		booking.LastName,
		booking.Email,
		booking.Phone,
		booking.Place,
		booking.HotelName,
		booking.Category,
		booking.Price,
		booking.CheckIn.Format("2006-01-02"),
		booking.CheckOut.Format("2006-01-02"),
		booking.DurationDays,
		booking.Guests,
		booking.SpecialRequests,
		booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking append: %w", err)
	}

	booking.ID = id
	return nil
}

// FindByCode returns every record whose access code exactly matches, oldest
// first. A code with no matches yields an empty slice, not an error.
func (db *DB) FindByCode(ctx context.Context, code string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE access_code = ? ORDER BY id`

	rows, err := db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by code: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// LoadAll returns the full ledger in append order. Administrative listing only.
func (db *DB) LoadAll(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (db *DB) CountBookings(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		var checkIn, checkOut string
		err := rows.Scan(
			&b.ID,
			&b.AccessCode,
			&b.FirstName,
			&b.LastName,
			&b.Email,
			&b.Phone,
			&b.Place,
			&b.HotelName,
			&b.Category,
			&b.Price,
			&checkIn,
			&checkOut,
			&b.DurationDays,
			&b.Guests,
			&b.SpecialRequests,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}

		if b.CheckIn, err = parseStoredDate(checkIn); err != nil {
			return nil, err
		}
		if b.CheckOut, err = parseStoredDate(checkOut); err != nil {
			return nil, err
		}

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading booking rows: %w", err)
	}

	return bookings, nil
}

func parseStoredDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		// Older sqlite drivers may round-trip a full timestamp.
		t, err = time.Parse("2006-01-02 15:04:05", raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse stored date %q: %w", raw, err)
		}
	}
	return t, nil
}
