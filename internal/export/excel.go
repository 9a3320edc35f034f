package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"staybook/internal/domain"
)

const sheetName = "Бронирования"

// ExcelExporter пишет снимок журнала бронирований в xlsx-файл.
type ExcelExporter struct {
	bookings domain.BookingRepository
	path     string
	logger   *zerolog.Logger
}

func NewExcelExporter(bookings domain.BookingRepository, path string, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{bookings: bookings, path: path, logger: logger}
}

// Export creates a dated xlsx snapshot of the full ledger and returns its path.
func (e *ExcelExporter) Export(ctx context.Context) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := e.bookings.LoadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading bookings: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Код доступа", "Имя", "Фамилия", "Email", "Телефон", "Город",
		"Отель", "Категория", "Цена", "Заезд", "Выезд", "Ночей", "Гостей",
		"Пожелания", "Создано",
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID, b.AccessCode, b.FirstName, b.LastName, b.Email, b.Phone, b.Place,
			b.HotelName, b.Category, b.Price,
			b.CheckIn.Format("02.01.2006"),
			b.CheckOut.Format("02.01.2006"),
			b.DurationDays, b.Guests,
			b.SpecialRequests,
			b.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	// Настраиваем ширину колонок
	_ = f.SetColWidth(sheetName, "A", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "H", 18)
	_ = f.SetColWidth(sheetName, "I", "N", 12)
	_ = f.SetColWidth(sheetName, "O", "P", 25)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}
