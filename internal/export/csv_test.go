package export

import (
	"strings"
	"testing"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

func TestCSV_EmptyInput(t *testing.T) {
	if _, err := CSV(nil); err != ErrNoStations {
		t.Fatalf("ожидался ErrNoStations, получено %v", err)
	}
}

func TestCSV_BOMAndHeader(t *testing.T) {
	out, err := CSV([]models.Station{{ID: "s1", LocationName: "Мега", Status: models.StatusPlanned}})
	if err != nil {
		t.Fatalf("экспорт: %v", err)
	}
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Error("выгрузка должна начинаться с BOM")
	}
	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\n")
	if len(lines) != 2 {
		t.Fatalf("ожидались заголовок и одна строка, получено %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Локация,Адрес") {
		t.Errorf("неверный заголовок: %q", lines[0])
	}
}

func TestCSV_Escaping(t *testing.T) {
	out, err := CSV([]models.Station{{
		ID:           "s1",
		LocationName: `a,"b"`,
		Status:       models.StatusPlanned,
	}})
	if err != nil {
		t.Fatalf("экспорт: %v", err)
	}
	if !strings.Contains(out, `"a,""b"""`) {
		t.Errorf("поле с запятой и кавычками должно экранироваться: %q", out)
	}
}

func TestCSV_NewlineEscaping(t *testing.T) {
	out, err := CSV([]models.Station{{
		ID:           "s1",
		LocationName: "Мега",
		Notes:        "первая строка\nвторая строка",
		Status:       models.StatusPlanned,
	}})
	if err != nil {
		t.Fatalf("экспорт: %v", err)
	}
	if !strings.Contains(out, "\"первая строка\nвторая строка\"") {
		t.Errorf("поле с переводом строки должно оборачиваться в кавычки: %q", out)
	}
}

func TestCSV_FreeUsersSummary(t *testing.T) {
	out, err := CSV([]models.Station{{
		ID:           "s1",
		LocationName: "Мега",
		Status:       models.StatusInstalled,
		FreeUsers: []models.FreeUser{
			{FullName: "Петров П.П.", Position: "Директор", Phone: "111"},
			{FullName: "Ким В.В.", Position: "Охранник", Phone: "222"},
		},
	}})
	if err != nil {
		t.Fatalf("экспорт: %v", err)
	}
	want := "ФИО: Петров П.П.; Должность: Директор; Телефон: 111 | ФИО: Ким В.В.; Должность: Охранник; Телефон: 222"
	if !strings.Contains(out, `"`+want+`"`) && !strings.Contains(out, want) {
		t.Errorf("сводка пользователей неверна, выгрузка: %q", out)
	}
}

func TestCSV_UnknownCoordinatesEmpty(t *testing.T) {
	lat := 43.238949
	lon := 76.889709
	out, err := CSV([]models.Station{
		{ID: "s1", LocationName: "Мега", Status: models.StatusPlanned},
		{ID: "s2", LocationName: "Форум", Status: models.StatusPlanned, Latitude: &lat, Longitude: &lon},
	})
	if err != nil {
		t.Fatalf("экспорт: %v", err)
	}
	if !strings.Contains(out, "43.238949") || !strings.Contains(out, "76.889709") {
		t.Errorf("известные координаты должны выгружаться: %q", out)
	}
	// Отсутствующие координаты — пустые ячейки, не нули
	if strings.Contains(out, "s1,Мега,,,,Планируется,,,,0,0") {
		t.Error("неизвестные координаты не должны печататься нулями")
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if got := FileName(now); got != "stations_export_2026-08-30.csv" {
		t.Errorf("неверное имя файла: %s", got)
	}
}

func TestXLSX_EmptyInput(t *testing.T) {
	if _, err := XLSX(nil); err != ErrNoStations {
		t.Fatalf("ожидался ErrNoStations, получено %v", err)
	}
}

func TestXLSX_ProducesWorkbook(t *testing.T) {
	data, err := XLSX([]models.Station{{ID: "s1", LocationName: "Мега", Status: models.StatusPlanned}})
	if err != nil {
		t.Fatalf("экспорт: %v", err)
	}
	// XLSX - это zip-архив, начинается с сигнатуры PK
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Error("выгрузка должна быть корректным XLSX-файлом")
	}
}
