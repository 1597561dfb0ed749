package repository

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
	"github.com/Almaty808/Fast-Charge-sub000/internal/store"
)

func newTestRepo(t *testing.T) (*StationRepository, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("открытие sqlite: %v", err)
	}
	if err := db.AutoMigrate(&store.KVEntry{}); err != nil {
		t.Fatalf("миграция: %v", err)
	}
	kv := store.New(db)
	repo := NewStationRepository(kv)
	if err := repo.Load(); err != nil {
		t.Fatalf("загрузка: %v", err)
	}
	return repo, kv
}

func TestStationRepository_LoadDefaults(t *testing.T) {
	repo, _ := newTestRepo(t)

	if len(repo.All()) != 0 {
		t.Error("пустое хранилище должно давать пустую коллекцию")
	}
	if repo.InventoryCount() != 0 {
		t.Error("пустое хранилище должно давать нулевой остаток")
	}
}

func TestStationRepository_UpdatePersists(t *testing.T) {
	repo, kv := newTestRepo(t)

	err := repo.Update(func(state *models.AppState) error {
		state.Stations = append(state.Stations, models.Station{ID: "s1", LocationName: "Мега"})
		state.InventoryCount = 5
		return nil
	})
	if err != nil {
		t.Fatalf("мутация: %v", err)
	}

	// Новый репозиторий поверх того же хранилища видит сохранённое состояние
	fresh := NewStationRepository(kv)
	if err := fresh.Load(); err != nil {
		t.Fatalf("повторная загрузка: %v", err)
	}
	if len(fresh.All()) != 1 || fresh.All()[0].ID != "s1" {
		t.Errorf("коллекция не сохранилась: %+v", fresh.All())
	}
	if fresh.InventoryCount() != 5 {
		t.Errorf("остаток не сохранился: %d", fresh.InventoryCount())
	}
}

func TestStationRepository_FailedUpdateKeepsState(t *testing.T) {
	repo, _ := newTestRepo(t)

	wantErr := repo.Update(func(state *models.AppState) error {
		return errors.New("отмена")
	})
	if wantErr == nil {
		t.Fatal("ошибка мутации должна всплывать")
	}
	if len(repo.All()) != 0 || repo.InventoryCount() != 0 {
		t.Error("неуспешная мутация не должна менять состояние")
	}
}

func TestStationRepository_ExternalChangeRehydrates(t *testing.T) {
	repo, kv := newTestRepo(t)

	// Внешняя запись в хранилище (другой инстанс приложения)
	_ = kv.SetJSON(store.KeyStations, []models.Station{{ID: "ext", LocationName: "Аэропорт"}})
	_ = kv.SetJSON(store.KeyInventoryCount, 7)

	kv.Reload(store.KeyStations)
	kv.Reload(store.KeyInventoryCount)

	if all := repo.All(); len(all) != 1 || all[0].ID != "ext" {
		t.Errorf("коллекция должна перечитаться: %+v", all)
	}
	if repo.InventoryCount() != 7 {
		t.Errorf("остаток должен перечитаться: %d", repo.InventoryCount())
	}

	// Очистка ключей сбрасывает состояние к значениям по умолчанию
	_ = kv.Delete(store.KeyStations)
	_ = kv.Delete(store.KeyInventoryCount)
	kv.Reload(store.KeyStations)
	kv.Reload(store.KeyInventoryCount)

	if len(repo.All()) != 0 || repo.InventoryCount() != 0 {
		t.Error("очистка ключей должна сбрасывать состояние")
	}
}

func TestStationRepository_RefreshAppliesExternalChanges(t *testing.T) {
	repo, kv := newTestRepo(t)

	// Запись мимо репозитория, как её сделал бы второй инстанс
	_ = kv.SetJSON(store.KeyStations, []models.Station{{ID: "ext", LocationName: "Вокзал"}})
	_ = kv.SetJSON(store.KeyInventoryCount, 3)

	if len(repo.All()) != 0 {
		t.Fatal("до Refresh память не должна видеть внешнюю запись")
	}

	repo.Refresh()

	if all := repo.All(); len(all) != 1 || all[0].ID != "ext" {
		t.Errorf("Refresh должен вносить внешние изменения: %+v", all)
	}
	if repo.InventoryCount() != 3 {
		t.Errorf("Refresh должен вносить внешний остаток: %d", repo.InventoryCount())
	}
}

func TestStationRepository_GetCopies(t *testing.T) {
	repo, _ := newTestRepo(t)

	_ = repo.Update(func(state *models.AppState) error {
		state.Stations = append(state.Stations, models.Station{ID: "s1", LocationName: "Мега"})
		return nil
	})

	st, ok := repo.Get("s1")
	if !ok {
		t.Fatal("станция должна находиться по id")
	}
	st.LocationName = "изменено снаружи"

	fresh, _ := repo.Get("s1")
	if fresh.LocationName != "Мега" {
		t.Error("Get должен возвращать копию, не ссылку на состояние")
	}
}
