package models

import (
	"time"
)

// StationStatus - статус зарядной станции
type StationStatus string

const (
	StatusPlanned     StationStatus = "planned"     // запланирована к установке
	StatusInstalled   StationStatus = "installed"   // установлена и работает
	StatusMaintenance StationStatus = "maintenance" // на обслуживании
	StatusRemoved     StationStatus = "removed"     // демонтирована, возвращена на склад
)

// statusLabels - отображаемые названия статусов
var statusLabels = map[StationStatus]string{
	StatusPlanned:     "Планируется",
	StatusInstalled:   "Установлена",
	StatusMaintenance: "Обслуживание",
	StatusRemoved:     "Демонтирована",
}

// Label возвращает человекочитаемое название статуса
func (s StationStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid проверяет, что статус входит в допустимый набор
func (s StationStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Station - зарядная станция (физический актив)
type Station struct {
	ID               string         `json:"id"`                // назначается при создании, далее неизменен
	LocationName     string         `json:"location_name"`     // название локации
	Address          string         `json:"address"`           // адрес установки
	Installer        string         `json:"installer"`         // монтажник
	InstallationDate string         `json:"installation_date"` // дата установки, формат 2006-01-02
	Status           StationStatus  `json:"status"`
	Notes            string         `json:"notes"`     // заметки (вручную или от AI)
	Latitude         *float64       `json:"latitude"`  // nil = координаты неизвестны
	Longitude        *float64       `json:"longitude"` // nil = координаты неизвестны
	SID              string         `json:"sid"`       // идентификатор станции
	DID              string         `json:"did"`       // идентификатор устройства
	SIM              string         `json:"sim"`       // номер SIM-карты
	FreeUsers        []FreeUser     `json:"free_users"`
	History          []HistoryEntry `json:"history"` // новые записи в начале
}

// FreeUser - контакт с правом бесплатной зарядки на станции
type FreeUser struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Phone    string `json:"phone"` // свободный формат, цифры извлекаются при поиске
}

// HistoryEntry - неизменяемая запись журнала изменений станции
type HistoryEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Employee string    `json:"employee"` // кто внёс изменение
	Change   string    `json:"change"`   // человекочитаемое описание
}

// AppState - полное состояние приложения: коллекция станций и остаток склада.
// Инвариант: каждый переход станции в статус "removed" увеличивает
// InventoryCount на 1, каждый выход из него (включая создание) - уменьшает.
type AppState struct {
	Stations       []Station `json:"stations"`
	InventoryCount int       `json:"inventory_count"`
}

// FormatInstallationDate переводит дату установки из 2006-01-02
// в отображаемый формат 02.01.2006. Невалидная дата возвращается как есть.
func FormatInstallationDate(isoDate string) string {
	if isoDate == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("02.01.2006")
}
