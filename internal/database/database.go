package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the durable booking store. The bookings table is append-only: records
// are inserted and read, never updated or deleted.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		// Создаем директорию для БД, если её нет
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every append must be on disk before AppendBooking returns.
	if _, err := db.Exec("PRAGMA synchronous = FULL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy_timeout pragma: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Таблица бронирований: фиксированный набор колонок, только append
		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            access_code TEXT NOT NULL,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL,
            place TEXT NOT NULL,
            hotel_name TEXT NOT NULL,
            category TEXT,
            price INTEGER NOT NULL DEFAULT 0,
            check_in DATETIME NOT NULL,
            check_out DATETIME NOT NULL,
            duration_days INTEGER NOT NULL,
            guests INTEGER NOT NULL,
            special_requests TEXT,
            created_at DATETIME NOT NULL
        )`,

		// Код доступа — единственный ключ поиска; уникальность не требуется
		`CREATE INDEX IF NOT EXISTS idx_bookings_access_code ON bookings(access_code)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
