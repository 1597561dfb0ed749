package repository

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
	"github.com/Almaty808/Fast-Charge-sub000/internal/store"
)

// StationRepository - упорядоченная коллекция станций и остаток склада.
// Состояние живёт в памяти; каждая успешная мутация сериализуется
// в key-value хранилище (best-effort, ошибки записи логируются).
type StationRepository struct {
	mu    sync.RWMutex
	store *store.Store
	state models.AppState
}

// NewStationRepository создаёт репозиторий станций поверх хранилища
func NewStationRepository(st *store.Store) *StationRepository {
	r := &StationRepository{store: st}

	// Перечитывание при внешнем изменении данных.
	// Очищенный ключ сбрасывает состояние к значению по умолчанию.
	st.Subscribe(store.KeyStations, func(raw []byte, exists bool) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !exists {
			r.state.Stations = nil
			return
		}
		var stations []models.Station
		if err := json.Unmarshal(raw, &stations); err != nil {
			log.Printf("[Станции] Ошибка разбора внешнего изменения, состояние не тронуто: %v", err)
			return
		}
		r.state.Stations = stations
	})
	st.Subscribe(store.KeyInventoryCount, func(raw []byte, exists bool) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !exists {
			r.state.InventoryCount = 0
			return
		}
		var count int
		if err := json.Unmarshal(raw, &count); err != nil {
			log.Printf("[Склад] Ошибка разбора внешнего изменения, остаток не тронут: %v", err)
			return
		}
		r.state.InventoryCount = count
	})

	return r
}

// Load читает состояние из хранилища; отсутствующие ключи
// дают значения по умолчанию (пустой список, нулевой остаток)
func (r *StationRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stations []models.Station
	if _, err := r.store.GetJSON(store.KeyStations, &stations); err != nil {
		return err
	}
	var count int
	if _, err := r.store.GetJSON(store.KeyInventoryCount, &count); err != nil {
		return err
	}

	r.state = models.AppState{Stations: stations, InventoryCount: count}
	return nil
}

// Refresh перечитывает оба ключа из хранилища и через подписчиков
// вносит внешние изменения (второй инстанс, ручная правка БД) в память
func (r *StationRepository) Refresh() {
	r.store.Reload(store.KeyStations)
	r.store.Reload(store.KeyInventoryCount)
}

// Update выполняет мутацию состояния под блокировкой.
// Если fn вернула ошибку, состояние не меняется - fn обязана
// модифицировать state только на успешном пути.
func (r *StationRepository) Update(fn func(state *models.AppState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := fn(&r.state); err != nil {
		return err
	}

	r.persistLocked()
	return nil
}

// persistLocked сериализует состояние в хранилище.
// Ошибки записи логируются и не всплывают: в памяти остаётся
// актуальное состояние, пользовательская операция уже завершена.
func (r *StationRepository) persistLocked() {
	if err := r.store.SetJSON(store.KeyStations, r.state.Stations); err != nil {
		log.Printf("[Станции] Ошибка сохранения коллекции: %v", err)
	}
	if err := r.store.SetJSON(store.KeyInventoryCount, r.state.InventoryCount); err != nil {
		log.Printf("[Склад] Ошибка сохранения остатка: %v", err)
	}
}

// All возвращает копию коллекции станций в порядке хранения
func (r *StationRepository) All() []models.Station {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Station, len(r.state.Stations))
	copy(out, r.state.Stations)
	return out
}

// Get возвращает копию станции по id
func (r *StationRepository) Get(id string) (*models.Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.state.Stations {
		if r.state.Stations[i].ID == id {
			st := r.state.Stations[i]
			return &st, true
		}
	}
	return nil, false
}

// InventoryCount возвращает текущий остаток склада
func (r *StationRepository) InventoryCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.InventoryCount
}
