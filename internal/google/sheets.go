package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"staybook/internal/domain"
)

const bookingsRange = "Bookings!A1:P"

// SheetsService зеркалирует журнал бронирований в Google-таблицу.
// Синхронизация полная: лист очищается и переписывается целиком.
type SheetsService struct {
	service       *sheets.Service
	bookings      domain.BookingRepository
	spreadsheetID string
}

func NewSheetsService(credentialsFile, spreadsheetID string, bookings domain.BookingRepository) (*SheetsService, error) {
	ctx := context.Background()

	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsService{
		service:       srv,
		bookings:      bookings,
		spreadsheetID: spreadsheetID,
	}, nil
}

// TestConnection проверяет подключение к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Bookings!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта
func GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}

	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// SyncBookings rewrites the Bookings sheet with the full ledger.
func (s *SheetsService) SyncBookings(ctx context.Context) error {
	all, err := s.bookings.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}

	values := [][]interface{}{{
		"ID", "Access Code", "First Name", "Last Name", "Email", "Phone", "Place",
		"Hotel", "Category", "Price", "Check-in", "Check-out", "Nights", "Guests",
		"Special Requests", "Created At",
	}}

	for _, b := range all {
		values = append(values, []interface{}{
			b.ID,
			b.AccessCode,
			b.FirstName,
			b.LastName,
			b.Email,
			b.Phone,
			b.Place,
			b.HotelName,
			b.Category,
			b.Price,
			b.CheckIn.Format("2006-01-02"),
			b.CheckOut.Format("2006-01-02"),
			b.DurationDays,
			b.Guests,
			b.SpecialRequests,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	// Сначала очищаем лист: записей могло стать меньше после восстановления
	// базы из бэкапа.
	if _, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, bookingsRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %v", err)
	}

	valueRange := &sheets.ValueRange{Values: values}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, fmt.Sprintf("Bookings!A1:P%d", len(values)), valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()

	return err
}
