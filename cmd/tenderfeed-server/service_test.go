package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"tenderfeed/lib/telemetry"
	"tenderfeed/lib/tender"
	"tenderfeed/lib/tenderstore"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

const cannedListing = `<html><body>
	<a href="/tender/111111-tender-shcheben">Поставка щебня</a>
	<a href="/tender/222222-tender-krovlya">Ремонт кровли</a>
</body></html>`

const cannedDetail = `<html><body>
	<h1 class="tender__title">Поставка щебня</h1>
	<div class="tender__date-end">20.03.2024 10:00</div>
	<div class="tender__price">1 234,56 руб</div>
</body></html>`

func cannedSite(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/extsearch" {
			fmt.Fprint(w, cannedListing)
			return
		}
		fmt.Fprint(w, cannedDetail)
	}))
	t.Cleanup(server.Close)
	return server
}

func testService(t *testing.T) TendersService {
	site := cannedSite(t)
	return TendersService{
		config: Config{
			Rostender: SourceConfig{BaseUrl: site.URL, PaceMinMs: 1, PaceMaxMs: 2},
			B2B:       SourceConfig{BaseUrl: site.URL, PaceMinMs: 1, PaceMaxMs: 2},
		},
		tracer: otel.Tracer("test:service"),
	}
}

func TestGetTenders(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:tenderfeed-server")
	defer cleanup()

	service := testService(t)
	savePath := filepath.Join(t.TempDir(), "tenders.csv")

	req := httptest.NewRequest(
		"GET",
		"/tenders?source=rostender&max_tenders=2&save_to="+savePath,
		nil,
	)
	rec := httptest.NewRecorder()
	service.GetTenders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var items []tender.Tender
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotEmpty(t, item.ID)
		require.NotEmpty(t, item.URL)
		require.Equal(t, tender.SourceRostender, item.Source)
	}
	require.Equal(t, "Поставка щебня", *items[0].Title)
	require.Equal(t, tender.PriceOf(1234.56), items[0].Price)

	rows, err := tenderstore.Load(savePath)
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestGetTendersDefaultsSource(t *testing.T) {
	service := testService(t)

	req := httptest.NewRequest("GET", "/tenders?max_tenders=1", nil)
	rec := httptest.NewRecorder()
	service.GetTenders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []tender.Tender
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, tender.SourceRostender, items[0].Source)
}

func TestGetTendersRejectsUnknownSource(t *testing.T) {
	service := testService(t)

	req := httptest.NewRequest("GET", "/tenders?source=zakupki", nil)
	rec := httptest.NewRecorder()
	service.GetTenders(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTendersRejectsBadMax(t *testing.T) {
	service := testService(t)

	for _, raw := range []string{"0", "201", "-1", "abc"} {
		req := httptest.NewRequest("GET", "/tenders?max_tenders="+raw, nil)
		rec := httptest.NewRecorder()
		service.GetTenders(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "max_tenders=%s", raw)
	}
}
