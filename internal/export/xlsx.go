package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

// XLSX собирает книгу Excel с теми же колонками, что и CSV
func XLSX(stations []models.Station) ([]byte, error) {
	if len(stations) == 0 {
		return nil, ErrNoStations
	}

	f := excelize.NewFile()
	sheet := "Станции"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}

	for i := range stations {
		row := stationRow(&stations[i])
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("ошибка формирования XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
