// Package inventory применяет операции жизненного цикла станций,
// удерживая складской инвариант: каждый переход в статус "removed"
// возвращает станцию на склад, каждый выход из него списывает её со
// склада и невозможен при нулевом остатке. Все операции синхронны
// и атомарны: либо фиксируются статус, остаток и журнал, либо ничего.
package inventory

import (
	"errors"
	"fmt"
	"log"

	"github.com/Almaty808/Fast-Charge-sub000/internal/history"
	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
	"github.com/Almaty808/Fast-Charge-sub000/internal/repository"
)

var (
	// ErrInventoryExhausted - на складе нет свободных станций
	ErrInventoryExhausted = errors.New("на складе нет свободных станций")
	// ErrNotFound - станция с указанным id отсутствует
	ErrNotFound = errors.New("станция не найдена")
)

// WarnForcedRemoved - предупреждение при сохранении формы с попыткой
// реактивации при пустом складе: статус принудительно оставлен "removed"
const WarnForcedRemoved = "На складе нет свободных станций, статус оставлен «Демонтирована»"

// Engine - движок жизненного цикла станций
type Engine struct {
	repo *repository.StationRepository
}

// NewEngine создаёт движок поверх репозитория станций
func NewEngine(repo *repository.StationRepository) *Engine {
	return &Engine{repo: repo}
}

// Create добавляет новую станцию. Требует свободную станцию на складе:
// при нулевом остатке возвращает ErrInventoryExhausted, состояние не меняется.
func (e *Engine) Create(draft models.Station, employee string) (*models.Station, error) {
	if draft.LocationName == "" || draft.Address == "" {
		return nil, fmt.Errorf("название локации и адрес обязательны")
	}
	if draft.Status == "" {
		draft.Status = models.StatusPlanned
	}
	if !draft.Status.Valid() {
		return nil, fmt.Errorf("недопустимый статус: %s", draft.Status)
	}
	if draft.Status == models.StatusRemoved {
		return nil, fmt.Errorf("новая станция не может быть сразу демонтирована")
	}

	var created models.Station
	err := e.repo.Update(func(state *models.AppState) error {
		if state.InventoryCount <= 0 {
			return ErrInventoryExhausted
		}

		draft.ID = history.NewID()
		assignFreeUserIDs(draft.FreeUsers)
		draft.History = []models.HistoryEntry{history.NewEntry(employee, "Станция создана")}

		state.InventoryCount--
		state.Stations = append(state.Stations, draft)
		created = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update применяет изменения из формы редактирования. Возвращает обновлённую
// станцию и предупреждение (непустое при принудительном откате статуса).
// Попытка вывести станцию из статуса "removed" при пустом складе не ошибка:
// запрошенный статус молча заменяется обратно на "removed", остальные поля
// сохраняются, вызывающему отдаётся предупреждение. Это защита от потери
// правок всей формы, в отличие от SetStatus, который в той же ситуации
// отклоняет операцию целиком.
func (e *Engine) Update(id string, input models.Station, employee string) (*models.Station, string, error) {
	if !input.Status.Valid() {
		return nil, "", fmt.Errorf("недопустимый статус: %s", input.Status)
	}

	var (
		updated models.Station
		warning string
	)
	err := e.repo.Update(func(state *models.AppState) error {
		idx := indexOf(state.Stations, id)
		if idx < 0 {
			return ErrNotFound
		}
		prev := state.Stations[idx]

		// id неизменен после создания, журнал только пополняется
		input.ID = prev.ID
		assignFreeUserIDs(input.FreeUsers)

		delta := 0
		switch {
		case prev.Status != models.StatusRemoved && input.Status == models.StatusRemoved:
			delta = +1
		case prev.Status == models.StatusRemoved && input.Status != models.StatusRemoved:
			if state.InventoryCount <= 0 {
				input.Status = models.StatusRemoved
				warning = WarnForcedRemoved
			} else {
				delta = -1
			}
		}

		changes := history.Diff(&prev, &input)
		entries := make([]models.HistoryEntry, 0, len(changes))
		for _, change := range changes {
			entries = append(entries, history.NewEntry(employee, change))
		}
		input.History = append(entries, prev.History...)

		state.InventoryCount += delta
		state.Stations[idx] = input
		updated = input
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &updated, warning, nil
}

// SetStatus меняет только статус станции с теми же складскими правилами.
// Реактивация при пустом складе отклоняется: ErrInventoryExhausted,
// статус и остаток не меняются.
func (e *Engine) SetStatus(id string, status models.StationStatus, employee string) (*models.Station, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("недопустимый статус: %s", status)
	}

	var updated models.Station
	err := e.repo.Update(func(state *models.AppState) error {
		idx := indexOf(state.Stations, id)
		if idx < 0 {
			return ErrNotFound
		}
		curr := state.Stations[idx]

		if curr.Status == status {
			updated = curr
			return nil
		}

		delta := 0
		switch {
		case curr.Status != models.StatusRemoved && status == models.StatusRemoved:
			delta = +1
		case curr.Status == models.StatusRemoved && status != models.StatusRemoved:
			if state.InventoryCount <= 0 {
				return ErrInventoryExhausted
			}
			delta = -1
		}

		next := curr
		next.Status = status
		for _, change := range history.Diff(&curr, &next) {
			next.History = append([]models.HistoryEntry{history.NewEntry(employee, change)}, next.History...)
		}

		state.InventoryCount += delta
		state.Stations[idx] = next
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete помечает станцию демонтированной. Запись не удаляется:
// станция остаётся в коллекции со статусом "removed" и полным журналом.
func (e *Engine) SoftDelete(id string, employee string) (*models.Station, error) {
	return e.SetStatus(id, models.StatusRemoved, employee)
}

// SetInventory устанавливает остаток склада (приёмка новых станций)
func (e *Engine) SetInventory(count int, employee string) error {
	if count < 0 {
		return fmt.Errorf("остаток склада не может быть отрицательным")
	}
	return e.repo.Update(func(state *models.AppState) error {
		log.Printf("[Склад] %s изменил остаток: %d -> %d", employee, state.InventoryCount, count)
		state.InventoryCount = count
		return nil
	})
}

// indexOf находит позицию станции в коллекции по id
func indexOf(stations []models.Station, id string) int {
	for i := range stations {
		if stations[i].ID == id {
			return i
		}
	}
	return -1
}

// assignFreeUserIDs выдаёт id новым пользователям (пришедшим из формы без id)
func assignFreeUserIDs(users []models.FreeUser) {
	for i := range users {
		if users[i].ID == "" {
			users[i].ID = history.NewID()
		}
	}
}
