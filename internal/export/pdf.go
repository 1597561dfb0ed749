package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

// PDFGenerator - генератор PDF-паспорта станции
type PDFGenerator struct {
	fontsDir string
}

// NewPDFGenerator создаёт генератор; fontsDir - папка с TTF-шрифтами,
// поддерживающими кириллицу
func NewPDFGenerator(fontsDir string) *PDFGenerator {
	if fontsDir == "" {
		fontsDir = "./fonts"
	}
	return &PDFGenerator{fontsDir: fontsDir}
}

// StationPDF генерирует паспорт станции: реквизиты, пользователи,
// последние записи журнала изменений
func (g *PDFGenerator) StationPDF(st *models.Station) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.AddUTF8Font("Arial", "", g.fontsDir+"/Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", g.fontsDir+"/Arial Bold.ttf")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Паспорт зарядной станции")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	g.drawField(pdf, "Локация", st.LocationName)
	g.drawField(pdf, "Адрес", st.Address)
	g.drawField(pdf, "Статус", st.Status.Label())
	g.drawField(pdf, "Монтажник", st.Installer)
	g.drawField(pdf, "Дата установки", models.FormatInstallationDate(st.InstallationDate))
	g.drawField(pdf, "SID", st.SID)
	g.drawField(pdf, "DID", st.DID)
	g.drawField(pdf, "SIM", st.SIM)
	if st.Latitude != nil && st.Longitude != nil {
		g.drawField(pdf, "Координаты", fmt.Sprintf("%.6f, %.6f", *st.Latitude, *st.Longitude))
	}
	if st.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, "Заметки")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, st.Notes, "", "L", false)
	}

	if len(st.FreeUsers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Бесплатные пользователи")
		pdf.Ln(9)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(70, 6, "ФИО", "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, "Должность", "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "Телефон", "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, u := range st.FreeUsers {
			pdf.CellFormat(70, 6, u.FullName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, u.Position, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, u.Phone, "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
	}

	if len(st.History) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Журнал изменений")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 9)
		// Журнал хранится от новых к старым, печатаем первые 20 записей
		limit := len(st.History)
		if limit > 20 {
			limit = 20
		}
		for _, entry := range st.History[:limit] {
			line := fmt.Sprintf("%s — %s: %s",
				entry.Date.Format("02.01.2006 15:04"), entry.Employee, entry.Change)
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ошибка генерации PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawField печатает пару «название: значение»; пустые значения пропускаются
func (g *PDFGenerator) drawField(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 7, value, "", "L", false)
}
