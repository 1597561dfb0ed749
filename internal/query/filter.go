// Package query фильтрует коллекцию станций по статусу и поисковой строке.
package query

import (
	"strings"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

// StatusAll - подстановочное значение фильтра статуса
const StatusAll = "all"

// Filter возвращает станции, прошедшие фильтр статуса и поиск.
// Порядок коллекции сохраняется, пересортировки нет.
func Filter(stations []models.Station, statusFilter string, searchQuery string) []models.Station {
	q := strings.ToLower(strings.TrimSpace(searchQuery))
	digits := digitsOnly(q)

	out := make([]models.Station, 0, len(stations))
	for _, st := range stations {
		if statusFilter != "" && statusFilter != StatusAll && string(st.Status) != statusFilter {
			continue
		}
		if q != "" && !matches(&st, q, digits) {
			continue
		}
		out = append(out, st)
	}
	return out
}

// matches проверяет станцию на совпадение с поисковой строкой.
// Поиск регистронезависимый, по подстроке: локация, идентификаторы,
// отображаемая дата установки, ФИО и телефоны пользователей.
func matches(st *models.Station, q, qDigits string) bool {
	if strings.Contains(strings.ToLower(st.LocationName), q) {
		return true
	}
	for _, id := range []string{st.SID, st.DID, st.SIM} {
		if id != "" && strings.Contains(strings.ToLower(id), q) {
			return true
		}
	}
	if date := models.FormatInstallationDate(st.InstallationDate); date != "" &&
		strings.Contains(date, q) {
		return true
	}
	for _, u := range st.FreeUsers {
		if strings.Contains(strings.ToLower(u.FullName), q) {
			return true
		}
		// Телефоны сверяются по цифрам, без скобок, пробелов и дефисов
		if qDigits != "" && strings.Contains(digitsOnly(u.Phone), qDigits) {
			return true
		}
	}
	return false
}

// digitsOnly оставляет в строке только цифры
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
