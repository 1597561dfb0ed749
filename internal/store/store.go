// Package store реализует типизированное key-value хранилище поверх БД.
// Значения сериализуются в JSON; подписчики уведомляются при Reload,
// когда ключ изменён извне (другой инстанс, ручная правка).
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Ключи состояния приложения
const (
	KeyStations       = "stations"
	KeyInventoryCount = "inventory_count"
)

// KVEntry - запись key-value хранилища
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"` // JSON
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Store - адаптер key-value хранилища
type Store struct {
	db *gorm.DB

	mu          sync.Mutex
	subscribers map[string][]func(raw []byte, exists bool)
}

// New создаёт новый Store
func New(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		subscribers: make(map[string][]func(raw []byte, exists bool)),
	}
}

// GetJSON читает значение ключа и десериализует его в dest.
// Возвращает false, если ключ отсутствует (dest не трогается).
func (s *Store) GetJSON(key string, dest any) (bool, error) {
	var entry KVEntry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("ошибка чтения ключа %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), dest); err != nil {
		return false, fmt.Errorf("ошибка разбора значения ключа %s: %w", key, err)
	}
	return true, nil
}

// SetJSON сериализует value и записывает его под ключом
func (s *Store) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка сериализации ключа %s: %w", key, err)
	}
	entry := KVEntry{Key: key, Value: string(raw)}
	return s.db.Save(&entry).Error
}

// Delete удаляет ключ
func (s *Store) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&KVEntry{}).Error
}

// Subscribe регистрирует обработчик внешних изменений ключа.
// Обработчик получает сырой JSON и exists=false, если ключ очищен.
func (s *Store) Subscribe(key string, fn func(raw []byte, exists bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[key] = append(s.subscribers[key], fn)
}

// Reload перечитывает ключ из БД и уведомляет подписчиков.
// Вызывается при сигнале о внешнем изменении данных.
func (s *Store) Reload(key string) {
	var entry KVEntry
	exists := true
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[Хранилище] Ошибка перечитывания ключа %s: %v", key, err)
			return
		}
		exists = false
	}

	s.mu.Lock()
	handlers := append([]func([]byte, bool){}, s.subscribers[key]...)
	s.mu.Unlock()

	for _, fn := range handlers {
		fn([]byte(entry.Value), exists)
	}
}
