package query

import (
	"testing"

	"github.com/Almaty808/Fast-Charge-sub000/internal/models"
)

func testStations() []models.Station {
	return []models.Station{
		{
			ID:               "s1",
			LocationName:     "ТРЦ Мега",
			Status:           models.StatusInstalled,
			SID:              "SID-ALA-01",
			InstallationDate: "2024-05-17",
			FreeUsers: []models.FreeUser{
				{ID: "u1", FullName: "Петров Пётр", Phone: "+7 (701) 123-45-67"},
			},
		},
		{
			ID:           "s2",
			LocationName: "БЦ Форум",
			Status:       models.StatusPlanned,
			DID:          "DID-ALA-02",
		},
		{
			ID:           "s3",
			LocationName: "Аэропорт",
			Status:       models.StatusRemoved,
			SIM:          "87005550011",
		},
	}
}

func ids(stations []models.Station) []string {
	out := make([]string, len(stations))
	for i, st := range stations {
		out[i] = st.ID
	}
	return out
}

func TestFilter_StatusWildcard(t *testing.T) {
	got := Filter(testStations(), StatusAll, "")
	if len(got) != 3 {
		t.Fatalf("фильтр all должен вернуть все станции, получено %d", len(got))
	}
}

func TestFilter_ByStatus(t *testing.T) {
	got := Filter(testStations(), "removed", "")
	if len(got) != 1 || got[0].ID != "s3" {
		t.Fatalf("ожидалась только s3, получено %v", ids(got))
	}
}

func TestFilter_LocationCaseInsensitive(t *testing.T) {
	got := Filter(testStations(), StatusAll, "  мега ")
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("ожидалась s1, получено %v", ids(got))
	}
}

func TestFilter_Identifiers(t *testing.T) {
	if got := Filter(testStations(), StatusAll, "did-ala"); len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("поиск по DID: ожидалась s2, получено %v", ids(got))
	}
	if got := Filter(testStations(), StatusAll, "8700555"); len(got) != 1 || got[0].ID != "s3" {
		t.Fatalf("поиск по SIM: ожидалась s3, получено %v", ids(got))
	}
}

func TestFilter_FormattedDate(t *testing.T) {
	got := Filter(testStations(), StatusAll, "17.05.2024")
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("поиск по дате: ожидалась s1, получено %v", ids(got))
	}
}

func TestFilter_PhoneDigitsIgnorePunctuation(t *testing.T) {
	// Фрагмент цифр находит телефон независимо от форматирования
	got := Filter(testStations(), StatusAll, "123-45")
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("поиск по цифрам телефона: ожидалась s1, получено %v", ids(got))
	}
}

func TestFilter_FreeUserName(t *testing.T) {
	got := Filter(testStations(), StatusAll, "петров")
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("поиск по ФИО: ожидалась s1, получено %v", ids(got))
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	stations := testStations()
	got := Filter(stations, StatusAll, "")
	for i := range got {
		if got[i].ID != stations[i].ID {
			t.Fatalf("порядок коллекции должен сохраняться: %v", ids(got))
		}
	}
}

func TestFilter_NoMatch(t *testing.T) {
	got := Filter(testStations(), StatusAll, "несуществующее")
	if len(got) != 0 {
		t.Fatalf("ожидался пустой результат, получено %v", ids(got))
	}
}
