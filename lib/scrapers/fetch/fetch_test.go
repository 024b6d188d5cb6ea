package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(ClientOptions{
		BaseUrl: baseUrl,
		PaceMin: time.Millisecond,
		PaceMax: time.Millisecond * 2,
	})
	require.NoError(t, err)
	return client
}

func TestDocument(t *testing.T) {
	var gotAcceptLanguage atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAcceptLanguage.Store(r.Header.Get("Accept-Language"))
		w.Write([]byte(`<html><body><h1>Тендер</h1></body></html>`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	doc, err := client.Document(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "Тендер", doc.Find("h1").Text())
	require.Equal(t, "ru,en;q=0.9", gotAcceptLanguage.Load())
}

func TestDocumentRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{
		BaseUrl:    server.URL,
		PaceMin:    time.Millisecond,
		PaceMax:    time.Millisecond * 2,
		RetryCount: 4,
	})
	require.NoError(t, err)
	// shrink the backoff so the test doesn't crawl
	client.Http.SetRetryWaitTime(time.Millisecond)
	client.Http.SetRetryMaxWaitTime(time.Millisecond * 10)

	_, err = client.Document(context.Background(), server.URL)
	require.NoError(t, err)
	require.EqualValues(t, 3, calls.Load())
}

func TestDocumentGivesUpOnPermanentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.Document(context.Background(), server.URL)
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	client := testClient(t, "https://rostender.info")
	require.Equal(
		t,
		"https://rostender.info/tender/123-tender-x",
		client.Resolve("/tender/123-tender-x"),
	)
}
