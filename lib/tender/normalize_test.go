package tender

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	raw := RawTender{
		ID:        "123456",
		Name:      "Поставка щебня",
		Published: DateOnly(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		Deadline:  DateTime(time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)),
		Price:     PriceOf(1234.56),
		URL:       "https://rostender.info/tender/123456-tender-shcheben",
		Location:  "г. Москва",
		Organizer: "ООО Ромашка",
		Customer:  "Строительство",
		Source:    SourceRostender,
	}

	got, err := Normalize(raw)
	require.NoError(t, err)

	require.Equal(t, "123456", got.ID)
	require.Equal(t, "Поставка щебня", *got.Title)
	require.Equal(t, "2024-03-05", *got.Published)
	require.Equal(t, "2024-03-20 10:00", *got.Deadline)
	require.Equal(t, PriceOf(1234.56), got.Price)
	require.Equal(t, raw.URL, got.URL)
	require.Equal(t, SourceRostender, got.Source)
	require.Equal(t, "г. Москва", *got.Location)
	require.Equal(t, "ООО Ромашка", *got.Organizer)
	require.Equal(t, "Строительство", *got.Customer)

	// api-only fields default to null
	require.Nil(t, got.Description)
	require.Nil(t, got.IndustriesText)
}

func TestNormalizeMissingIdentity(t *testing.T) {
	_, err := Normalize(RawTender{ID: "1", Source: SourceB2B})
	require.True(t, errors.Is(err, ErrMissingIdentity))

	_, err = Normalize(RawTender{ID: "1", URL: "https://example.com"})
	require.True(t, errors.Is(err, ErrMissingIdentity))
}

func TestNormalizeStableShape(t *testing.T) {
	got, err := Normalize(RawTender{
		ID:     "77",
		URL:    "https://www.b2b-center.ru/market/tender-77",
		Source: SourceB2B,
	})
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(data, &asMap))
	for _, key := range []string{
		"id", "title", "published", "deadline", "price", "description",
		"url", "source", "location", "customer", "organizer", "industries_text",
	} {
		require.Contains(t, asMap, key)
	}
	// absent price renders as the sentinel, not zero
	require.Equal(t, PriceNotStated, asMap["price"])
	require.Nil(t, asMap["title"])
}

func TestNormalizeAll(t *testing.T) {
	_, err := NormalizeAll([]RawTender{
		{ID: "1", URL: "https://example.com/1", Source: SourceRostender},
		{ID: "2"},
	})
	require.True(t, errors.Is(err, ErrMissingIdentity))
}

func TestDateTextUnparsedSurvivesNormalize(t *testing.T) {
	got, err := Normalize(RawTender{
		ID:       "9",
		Deadline: RawDate("по мере поступления заявок"),
		URL:      "https://example.com/9",
		Source:   SourceRostender,
	})
	require.NoError(t, err)
	require.Equal(t, "по мере поступления заявок", *got.Deadline)
}
