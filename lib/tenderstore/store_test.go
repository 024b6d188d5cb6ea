package tenderstore

import (
	"path/filepath"
	"testing"
	"time"

	"tenderfeed/lib/tender"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	items := []tender.RawTender{
		{
			ID:        "111111",
			Name:      "Поставка щебня",
			Published: tender.DateOnly(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
			Deadline:  tender.DateTime(time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)),
			Price:     tender.PriceOf(1234.56),
			URL:       "https://rostender.info/tender/111111-tender-shcheben",
			Location:  "г. Москва",
			Organizer: "ООО Ромашка",
			Customer:  "Строительство",
			Source:    tender.SourceRostender,
		},
		{
			ID:       "555222",
			Name:     "Запрос предложений",
			Deadline: tender.RawDate("уточняется"),
			URL:      "https://www.b2b-center.ru/market/tender-555222.html",
			Location: "Место поставки не указано",
			Source:   tender.SourceB2B,
		},
	}

	path := filepath.Join(t.TempDir(), "tenders.csv")
	require.NoError(t, Save(path, items))

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, len(items)+1)

	if diff := cmp.Diff(Columns, rows[0]); diff != "" {
		t.Fatal(diff)
	}
	expected := [][]string{
		{
			"111111", "Поставка щебня", "2024-03-05", "2024-03-20 10:00", "1234.56",
			"г. Москва", "ООО Ромашка", "Строительство",
			"https://rostender.info/tender/111111-tender-shcheben", "rostender",
		},
		{
			"555222", "Запрос предложений", "", "уточняется", tender.PriceNotStated,
			"Место поставки не указано", "", "",
			"https://www.b2b-center.ru/market/tender-555222.html", "b2b",
		},
	}
	if diff := cmp.Diff(expected, rows[1:]); diff != "" {
		t.Fatal(diff)
	}
}

func TestSaveBadDestination(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "no-such-dir", "tenders.csv"), nil)
	require.Error(t, err)
}
