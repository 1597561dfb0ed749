// Package export сериализует станции в выгружаемые форматы: CSV для
// табличных редакторов, XLSX и PDF-паспорт станции.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

// ErrNoStations - выгрузка пустого списка не имеет смысла
var ErrNoStations = errors.New("нет станций для экспорта")

// csvHeader - фиксированный порядок колонок
var csvHeader = []string{
	"ID", "Локация", "Адрес", "Монтажник", "Дата установки", "Статус",
	"SID", "DID", "SIM", "Широта", "Долгота", "Заметки", "Бесплатные пользователи",
}

// CSV собирает текст CSV-файла: UTF-8 BOM, строка заголовков,
// затем по строке на станцию
func CSV(stations []models.Station) (string, error) {
	if len(stations) == 0 {
		return "", ErrNoStations
	}

	var lines []string
	lines = append(lines, joinRow(csvHeader))
	for i := range stations {
		lines = append(lines, joinRow(stationRow(&stations[i])))
	}

	return "\uFEFF" + strings.Join(lines, "\n"), nil
}

// FileName возвращает имя файла выгрузки на указанную дату
func FileName(now time.Time) string {
	return "stations_export_" + now.Format("2006-01-02") + ".csv"
}

// stationRow формирует значения колонок одной станции
func stationRow(st *models.Station) []string {
	return []string{
		st.ID,
		st.LocationName,
		st.Address,
		st.Installer,
		models.FormatInstallationDate(st.InstallationDate),
		st.Status.Label(),
		st.SID,
		st.DID,
		st.SIM,
		formatCoord(st.Latitude),
		formatCoord(st.Longitude),
		st.Notes,
		freeUsersSummary(st.FreeUsers),
	}
}

// freeUsersSummary сводит пользователей станции в одну ячейку
func freeUsersSummary(users []models.FreeUser) string {
	parts := make([]string, 0, len(users))
	for _, u := range users {
		parts = append(parts, fmt.Sprintf("ФИО: %s; Должность: %s; Телефон: %s",
			u.FullName, u.Position, u.Phone))
	}
	return strings.Join(parts, " | ")
}

// formatCoord печатает координату; nil - местоположение неизвестно
func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// joinRow склеивает значения в строку CSV с экранированием
func joinRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escapeField(f)
	}
	return strings.Join(escaped, ",")
}

// escapeField оборачивает в кавычки поля с запятой, кавычкой или
// переводом строки; внутренние кавычки удваиваются
func escapeField(f string) string {
	if strings.ContainsAny(f, ",\"\n") {
		return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return f
}
