// Package history вычисляет человекочитаемые описания изменений станции
// и порождает записи журнала. Сравнение чистое: без побочных эффектов,
// результат детерминирован для пары (старая, новая) версий.
package history

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

// emptyMark подставляется вместо пустого значения поля
const emptyMark = "(пусто)"

// scalarField - сравниваемое скалярное поле станции
type scalarField struct {
	label string
	value func(st *models.Station) string
}

// Порядок полей фиксирован: в этом же порядке идут записи в журнале
var scalarFields = []scalarField{
	{"Локация", func(st *models.Station) string { return st.LocationName }},
	{"Адрес", func(st *models.Station) string { return st.Address }},
	{"Статус", func(st *models.Station) string {
		if st.Status == "" {
			return ""
		}
		return st.Status.Label()
	}},
	{"Заметки", func(st *models.Station) string { return st.Notes }},
	{"SID", func(st *models.Station) string { return st.SID }},
	{"DID", func(st *models.Station) string { return st.DID }},
	{"SIM", func(st *models.Station) string { return st.SIM }},
	{"Монтажник", func(st *models.Station) string { return st.Installer }},
	{"Дата установки", func(st *models.Station) string { return st.InstallationDate }},
}

// norm нормализует пустое значение к явному маркеру
func norm(v string) string {
	if strings.TrimSpace(v) == "" {
		return emptyMark
	}
	return v
}

// Diff возвращает список описаний различий между двумя версиями станции.
// Сначала скалярные поля (в порядке объявления), затем добавленные и
// изменённые пользователи в порядке нового списка, затем удалённые
// в порядке старого списка. Пустой список - версии совпадают.
func Diff(prev, curr *models.Station) []string {
	var changes []string

	for _, f := range scalarFields {
		oldVal := norm(f.value(prev))
		newVal := norm(f.value(curr))
		if oldVal != newVal {
			changes = append(changes, fmt.Sprintf("%s: изменено с %q на %q", f.label, oldVal, newVal))
		}
	}

	changes = append(changes, diffFreeUsers(prev.FreeUsers, curr.FreeUsers)...)
	return changes
}

// diffFreeUsers сверяет списки пользователей по id.
// Оба списка индексируются картами, попарного перебора нет.
func diffFreeUsers(prevUsers, currUsers []models.FreeUser) []string {
	prevByID := make(map[string]models.FreeUser, len(prevUsers))
	for _, u := range prevUsers {
		prevByID[u.ID] = u
	}
	currByID := make(map[string]models.FreeUser, len(currUsers))
	for _, u := range currUsers {
		currByID[u.ID] = u
	}

	var changes []string

	// Один проход по новому списку: добавленные и изменённые
	for _, nu := range currUsers {
		ou, existed := prevByID[nu.ID]
		if !existed {
			changes = append(changes, fmt.Sprintf("Добавлен пользователь %q", nu.FullName))
			continue
		}
		if fields := diffUserFields(ou, nu); len(fields) > 0 {
			changes = append(changes, fmt.Sprintf("Изменён пользователь %q: %s", nu.FullName, strings.Join(fields, "; ")))
		}
	}

	// Удалённые - в порядке старого списка
	for _, ou := range prevUsers {
		if _, kept := currByID[ou.ID]; !kept {
			changes = append(changes, fmt.Sprintf("Удалён пользователь %q", ou.FullName))
		}
	}

	return changes
}

// diffUserFields собирает изменения полей одного пользователя
func diffUserFields(prev, curr models.FreeUser) []string {
	var fields []string
	if norm(prev.FullName) != norm(curr.FullName) {
		fields = append(fields, fmt.Sprintf("ФИО: %q → %q", norm(prev.FullName), norm(curr.FullName)))
	}
	if norm(prev.Position) != norm(curr.Position) {
		fields = append(fields, fmt.Sprintf("Должность: %q → %q", norm(prev.Position), norm(curr.Position)))
	}
	if norm(prev.Phone) != norm(curr.Phone) {
		fields = append(fields, fmt.Sprintf("Телефон: %q → %q", norm(prev.Phone), norm(curr.Phone)))
	}
	return fields
}

// NewEntry создаёт запись журнала. Единственная точка создания HistoryEntry:
// свежий id, текущее время, имя сотрудника и описание изменения.
func NewEntry(employee, change string) models.HistoryEntry {
	return models.HistoryEntry{
		ID:       NewID(),
		Date:     time.Now(),
		Employee: employee,
		Change:   change,
	}
}

// NewID генерирует уникальный идентификатор для записей и станций
func NewID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
