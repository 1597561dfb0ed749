package history

import (
	"strings"
	"testing"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

func sampleStation() models.Station {
	return models.Station{
		ID:               "st-1",
		LocationName:     "ТРЦ Мега",
		Address:          "г. Алматы, ул. Розыбакиева 247",
		Installer:        "Иванов И.И.",
		InstallationDate: "2024-03-15",
		Status:           models.StatusInstalled,
		Notes:            "Стандартная установка",
		SID:              "SID-100",
		DID:              "DID-200",
		SIM:              "87001234567",
		FreeUsers: []models.FreeUser{
			{ID: "u1", FullName: "Петров П.П.", Position: "Директор", Phone: "+7 (701) 111-22-33"},
		},
	}
}

func TestDiff_EqualStationsEmpty(t *testing.T) {
	a := sampleStation()
	b := sampleStation()

	if changes := Diff(&a, &b); len(changes) != 0 {
		t.Fatalf("ожидался пустой diff, получено %d записей: %v", len(changes), changes)
	}
}

func TestDiff_NotesOnly(t *testing.T) {
	a := sampleStation()
	b := sampleStation()
	b.Notes = "Перенесена точка подключения"

	changes := Diff(&a, &b)
	if len(changes) != 1 {
		t.Fatalf("ожидалась 1 запись, получено %d: %v", len(changes), changes)
	}
	if !strings.HasPrefix(changes[0], "Заметки:") {
		t.Errorf("запись должна называть поле заметок: %q", changes[0])
	}
	if !strings.Contains(changes[0], `"Стандартная установка"`) || !strings.Contains(changes[0], `"Перенесена точка подключения"`) {
		t.Errorf("запись должна содержать старое и новое значения: %q", changes[0])
	}
}

func TestDiff_EmptyValueMarker(t *testing.T) {
	a := sampleStation()
	b := sampleStation()
	a.SIM = ""
	b.SIM = "87009998877"

	changes := Diff(&a, &b)
	if len(changes) != 1 {
		t.Fatalf("ожидалась 1 запись, получено %d: %v", len(changes), changes)
	}
	if !strings.Contains(changes[0], `"(пусто)"`) {
		t.Errorf("пустое значение должно печататься явным маркером: %q", changes[0])
	}
}

func TestDiff_StatusUsesLabels(t *testing.T) {
	a := sampleStation()
	b := sampleStation()
	b.Status = models.StatusMaintenance

	changes := Diff(&a, &b)
	if len(changes) != 1 {
		t.Fatalf("ожидалась 1 запись, получено %d: %v", len(changes), changes)
	}
	if !strings.Contains(changes[0], "Установлена") || !strings.Contains(changes[0], "Обслуживание") {
		t.Errorf("статусы должны печататься человекочитаемо: %q", changes[0])
	}
}

func TestDiff_FreeUserReconciliation(t *testing.T) {
	a := sampleStation()
	a.FreeUsers = []models.FreeUser{
		{ID: "u1", FullName: "Петров П.П.", Position: "Директор", Phone: "111"},
		{ID: "u2", FullName: "Сидоров С.С.", Position: "Охранник", Phone: "222"},
	}
	b := sampleStation()
	b.FreeUsers = []models.FreeUser{
		{ID: "u1", FullName: "Петров П.П.", Position: "Управляющий", Phone: "333"},
		{ID: "u3", FullName: "Ким В.В.", Position: "", Phone: "444"},
	}

	changes := Diff(&a, &b)
	if len(changes) != 3 {
		t.Fatalf("ожидалось 3 записи (изменён, добавлен, удалён), получено %d: %v", len(changes), changes)
	}

	// Порядок: новый список даёт изменённых и добавленных, затем удалённые
	if !strings.Contains(changes[0], "Изменён пользователь") || !strings.Contains(changes[0], "Петров") {
		t.Errorf("первая запись должна быть об изменении Петрова: %q", changes[0])
	}
	// Все изменённые поля собраны в одну запись
	if !strings.Contains(changes[0], "Должность") || !strings.Contains(changes[0], "Телефон") {
		t.Errorf("изменения полей должны быть агрегированы: %q", changes[0])
	}
	if !strings.Contains(changes[1], "Добавлен пользователь") || !strings.Contains(changes[1], "Ким") {
		t.Errorf("вторая запись должна быть о добавлении: %q", changes[1])
	}
	if !strings.Contains(changes[2], "Удалён пользователь") || !strings.Contains(changes[2], "Сидоров") {
		t.Errorf("третья запись должна быть об удалении: %q", changes[2])
	}
}

func TestDiff_ScalarFieldsBeforeUsers(t *testing.T) {
	a := sampleStation()
	b := sampleStation()
	b.Address = "г. Алматы, пр. Абая 10"
	b.FreeUsers = append(b.FreeUsers, models.FreeUser{ID: "u9", FullName: "Новый Н.Н."})

	changes := Diff(&a, &b)
	if len(changes) != 2 {
		t.Fatalf("ожидалось 2 записи, получено %d: %v", len(changes), changes)
	}
	if !strings.HasPrefix(changes[0], "Адрес:") {
		t.Errorf("скалярные поля идут раньше пользователей: %v", changes)
	}
}

func TestNewEntry(t *testing.T) {
	e1 := NewEntry("Иванов И.И.", "Станция создана")
	e2 := NewEntry("Иванов И.И.", "Станция создана")

	if e1.ID == "" || e2.ID == "" {
		t.Fatal("запись журнала должна получать id")
	}
	if e1.ID == e2.ID {
		t.Errorf("id записей должны быть уникальны: %s", e1.ID)
	}
	if e1.Employee != "Иванов И.И." || e1.Change != "Станция создана" {
		t.Errorf("поля записи заполнены неверно: %+v", e1)
	}
	if e1.Date.IsZero() {
		t.Error("запись должна получать время создания")
	}
}
