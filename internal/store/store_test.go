package store

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("открытие sqlite: %v", err)
	}
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		t.Fatalf("миграция: %v", err)
	}
	return New(db)
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := s.SetJSON("key", payload{Name: "Мега", Count: 3}); err != nil {
		t.Fatalf("запись: %v", err)
	}

	var got payload
	exists, err := s.GetJSON("key", &got)
	if err != nil {
		t.Fatalf("чтение: %v", err)
	}
	if !exists {
		t.Fatal("ключ должен существовать")
	}
	if got.Name != "Мега" || got.Count != 3 {
		t.Errorf("значение искажено: %+v", got)
	}
}

func TestStore_MissingKey(t *testing.T) {
	s := newTestStore(t)

	var got int
	exists, err := s.GetJSON("missing", &got)
	if err != nil {
		t.Fatalf("чтение: %v", err)
	}
	if exists {
		t.Error("отсутствующий ключ не должен считаться существующим")
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := newTestStore(t)

	_ = s.SetJSON("key", 1)
	_ = s.SetJSON("key", 2)

	var got int
	if _, err := s.GetJSON("key", &got); err != nil {
		t.Fatalf("чтение: %v", err)
	}
	if got != 2 {
		t.Errorf("ожидалась перезапись значения, получено %d", got)
	}
}

func TestStore_ReloadNotifiesSubscribers(t *testing.T) {
	s := newTestStore(t)

	var gotRaw []byte
	var gotExists bool
	calls := 0
	s.Subscribe("key", func(raw []byte, exists bool) {
		gotRaw = raw
		gotExists = exists
		calls++
	})

	_ = s.SetJSON("key", 42)
	s.Reload("key")

	if calls != 1 {
		t.Fatalf("подписчик должен быть вызван один раз, вызовов: %d", calls)
	}
	if !gotExists || string(gotRaw) != "42" {
		t.Errorf("подписчик получил неверные данные: exists=%v raw=%q", gotExists, gotRaw)
	}

	// Очистка ключа отдаёт exists=false - сброс к состоянию по умолчанию
	if err := s.Delete("key"); err != nil {
		t.Fatalf("удаление: %v", err)
	}
	s.Reload("key")
	if calls != 2 {
		t.Fatalf("подписчик должен быть вызван повторно, вызовов: %d", calls)
	}
	if gotExists {
		t.Error("после очистки ключа exists должен быть false")
	}
}
