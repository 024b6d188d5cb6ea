// Package b2b scrapes the b2b-center.ru market page and each tender's
// trade-info card.
package b2b

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"tenderfeed/lib/restyutil"
	"tenderfeed/lib/scrapers/fetch"
	"tenderfeed/lib/tender"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scrapers/b2b")

const DefaultBaseUrl = "https://www.b2b-center.ru"

var tenderIdRegex = regexp.MustCompile(`tender-(\d+)`)

type Scraper struct {
	client *fetch.Client
}

func New(opts fetch.ClientOptions) (*Scraper, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	client, err := fetch.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Scraper{client: client}, nil
}

func (s *Scraper) Source() string {
	return tender.SourceB2B
}

func (s *Scraper) SetInstrumentOutput(output restyutil.InstrumentOutput) {
	s.client.SetInstrumentOutput(output)
}

// Fetch reads the market listing once and scrapes detail cards until
// max tenders are collected or the listing runs out.
func (s *Scraper) Fetch(ctx context.Context, max int) ([]tender.RawTender, error) {
	ctx, span := tracer.Start(ctx, "b2b:Fetch")
	defer span.End()
	span.SetAttributes(attribute.Int("max", max))

	doc, err := s.client.Document(ctx, s.client.BaseUrl.String()+"/market/")
	if err != nil {
		return nil, err
	}

	var items []tender.RawTender
	for _, href := range s.listingLinks(doc) {
		if len(items) >= max {
			break
		}

		groups := tenderIdRegex.FindStringSubmatch(href)
		if groups == nil {
			continue
		}

		items = append(items, s.scrapeDetail(ctx, groups[1], s.client.Resolve(href)))
	}

	return items, nil
}

// listingLinks collects market anchors pointing at tender cards,
// deduplicated by href in document order.
func (s *Scraper) listingLinks(doc *goquery.Document) []string {
	seen := map[string]bool{}
	var out []string
	doc.Find(`a[href*="tender-"]`).Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !strings.Contains(href, "/market/") || !tenderIdRegex.MatchString(href) {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		out = append(out, href)
	})
	return out
}

func (s *Scraper) scrapeDetail(ctx context.Context, id, link string) tender.RawTender {
	ctx, span := tracer.Start(ctx, "b2b:scrapeDetail")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	item := tender.RawTender{
		ID:     id,
		Name:   "Тендер " + id,
		URL:    link,
		Source: tender.SourceB2B,
	}

	doc, err := s.client.Document(ctx, link)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "detail page failed, keeping listing fields",
			"source", s.Source(), "url", link, "err", err)
		return item
	}
	defer s.client.Pace()

	if title := extractTitle(doc); title != "" {
		item.Name = title
	}
	item.Published = extractPublished(doc)
	item.Deadline = extractDeadline(doc)
	item.Price = extractPrice(doc)
	item.Location = extractLocation(doc)
	item.Organizer = extractOrganizer(doc)
	item.Customer = extractCustomer(doc)
	return item
}
