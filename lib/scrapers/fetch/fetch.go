// Package fetch builds the resty client both scrapers share: browser-ish
// headers, bounded retry with backoff on transient statuses and a
// self-imposed randomized delay between detail-page requests.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"tenderfeed/lib/restyutil"
	"tenderfeed/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type ClientOptions struct {
	BaseUrl string
	// extra headers on top of the shared browser-ish defaults
	Headers map[string]string
	// pacing bounds for Pace, defaults to 2s..3s
	PaceMin time.Duration
	PaceMax time.Duration
	// defaults to 20s
	Timeout time.Duration
	// defaults to 5
	RetryCount int
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	paceMin time.Duration
	paceMax time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 20
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = 5
	}
	if opts.PaceMax == 0 {
		opts.PaceMin = time.Second * 2
		opts.PaceMax = time.Second * 3
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", defaultUserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "ru,en;q=0.9")
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}

	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(1200 * time.Millisecond)
	client.SetRetryMaxWaitTime(30 * time.Second)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return retryStatuses[res.StatusCode()]
	})
	// honor a server-specified delay when present, otherwise fall back
	// to resty's exponential backoff
	client.SetRetryAfter(func(_ *resty.Client, res *resty.Response) (time.Duration, error) {
		if res == nil {
			return 0, nil
		}
		seconds, err := strconv.Atoi(res.Header().Get("Retry-After"))
		if err != nil || seconds <= 0 {
			return 0, nil
		}
		return time.Duration(seconds) * time.Second, nil
	})

	telemetry.InstrumentResty(client, "scrapers/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		paceMin: opts.PaceMin,
		paceMax: opts.PaceMax,
	}, nil
}

func (c *Client) SetInstrumentOutput(output restyutil.InstrumentOutput) {
	restyutil.InstrumentClient(c.Http, output)
}

// Document fetches a page and parses it. Any transport failure left
// after retries, or a non-200 status, comes back as an error; callers
// treat that as "skip this page", never as fatal.
func (c *Client) Document(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", link, res.StatusCode())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// Pace sleeps for the configured randomized delay. Called after each
// successful detail-page fetch to avoid tripping rate limits.
func (c *Client) Pace() {
	delay := c.paceMin
	spanMs := int((c.paceMax - c.paceMin) / time.Millisecond)
	if spanMs > 0 {
		jitterMs, err := random.IntRange(0, spanMs)
		if err == nil {
			delay += time.Duration(jitterMs) * time.Millisecond
		}
	}
	time.Sleep(delay)
}

// Resolve joins a possibly-relative href against the client's base url.
func (c *Client) Resolve(href string) string {
	link, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.BaseUrl.ResolveReference(link).String()
}
