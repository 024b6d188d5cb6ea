package rostender

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tenderfeed/lib/scrapers/fetch"
	"tenderfeed/lib/telemetry"
	"tenderfeed/lib/tender"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/listing.html
var listingPage string

//go:embed testdata/detail_full.html
var detailFullPage string

//go:embed testdata/detail_partial.html
var detailPartialPage string

func testScraper(t *testing.T, baseUrl string) *Scraper {
	s, err := New(fetch.ClientOptions{
		BaseUrl: baseUrl,
		PaceMin: time.Millisecond,
		PaceMax: time.Millisecond * 2,
	})
	require.NoError(t, err)
	return s
}

func testServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/extsearch":
			if r.URL.Query().Get("page") == "1" {
				fmt.Fprint(w, listingPage)
				return
			}
			fmt.Fprint(w, "<html><body></body></html>")
		case r.URL.Path == "/tender/111111-tender-shcheben":
			fmt.Fprint(w, detailFullPage)
		case r.URL.Path == "/tender/222222-tender-krovlya":
			fmt.Fprint(w, detailPartialPage)
		default:
			// tenders past the canned ones have no detail page
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestListingLinks(t *testing.T) {
	server := testServer(t)
	s := testScraper(t, server.URL)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingPage))
	require.NoError(t, err)

	links := s.listingLinks(context.Background(), doc)
	// duplicates survive here; Fetch dedups through its seen-set
	require.Len(t, links, 5)
	require.Equal(t, "111111", links[0].id)
	require.Equal(t, server.URL+"/tender/111111-tender-shcheben", links[0].href)
	require.Equal(t, "Поставка щебня", links[0].title)
}

func TestFetch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/rostender")
	defer cleanup()

	server := testServer(t)
	s := testScraper(t, server.URL)

	items, err := s.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	full := items[0]
	require.Equal(t, "111111", full.ID)
	require.Equal(t, "Поставка щебня для дорожных работ", full.Name)
	require.Equal(t, "2024-03-05", full.Published.String())
	require.Equal(t, "2024-03-20 10:00", full.Deadline.String())
	require.Equal(t, tender.PriceOf(1234.56), full.Price)
	require.Equal(t, "г. Москва, ул. Ленина, д. 1", full.Location)
	require.Equal(t, "Дорожное строительство, Щебень и гравий, Строительство", full.Customer)
	require.Equal(t, organizerHidden, full.Organizer)
	require.Equal(t, server.URL+"/tender/111111-tender-shcheben", full.URL)
	require.Equal(t, tender.SourceRostender, full.Source)

	partial := items[1]
	require.Equal(t, "222222", partial.ID)
	require.Equal(t, "Ремонт кровли здания школы", partial.Name)
	require.False(t, partial.Price.Valid)
	require.Equal(t, tender.PriceNotStated, partial.Price.String())
	require.Empty(t, partial.Location)
	require.Equal(t, "2024-12-25 00:00", partial.Deadline.String())
	require.True(t, partial.Published.IsZero())
}

func TestFetchMaxBound(t *testing.T) {
	server := testServer(t)
	s := testScraper(t, server.URL)

	// listing carries 3 unique tenders, only one detail page resolves;
	// detail failures still yield records built from the anchor
	items, err := s.Fetch(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// the third tender's detail page 404s, the listing title survives
	require.Equal(t, "333333", items[2].ID)
	require.Equal(t, "Поставка труб", items[2].Name)
	require.NotEmpty(t, items[2].URL)
	require.Equal(t, tender.SourceRostender, items[2].Source)
}

func TestFetchDedupsListing(t *testing.T) {
	server := testServer(t)
	s := testScraper(t, server.URL)

	items, err := s.Fetch(context.Background(), 20)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, item := range items {
		require.False(t, seen[item.ID], "id %s appeared twice", item.ID)
		seen[item.ID] = true
	}
	require.Len(t, items, 3)
}

func TestFetchListingDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	s := testScraper(t, server.URL)

	_, err := s.Fetch(context.Background(), 5)
	require.Error(t, err)
}
