// Package rostender scrapes rostender.info: the paginated /extsearch
// listing plus each tender's detail card.
package rostender

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"tenderfeed/lib/htmlutil"
	"tenderfeed/lib/restyutil"
	"tenderfeed/lib/scrapers/fetch"
	"tenderfeed/lib/tender"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scrapers/rostender")

const DefaultBaseUrl = "https://rostender.info"

// how many tenders one listing page carries
const listingPageSize = 20

// organizer data sits behind a login wall on this source
const organizerHidden = "Данные об организаторе скрыты, необходима авторизация"

var tenderLinkRegex = regexp.MustCompile(`/(\d{6,})-tender-`)

type Scraper struct {
	client *fetch.Client
}

func New(opts fetch.ClientOptions) (*Scraper, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Headers == nil {
		opts.Headers = map[string]string{
			"referer": opts.BaseUrl + "/extsearch",
		}
	}
	client, err := fetch.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Scraper{client: client}, nil
}

func (s *Scraper) Source() string {
	return tender.SourceRostender
}

func (s *Scraper) SetInstrumentOutput(output restyutil.InstrumentOutput) {
	s.client.SetInstrumentOutput(output)
}

type listingLink struct {
	id    string
	href  string
	title string
}

// Fetch walks listing pages in order until max tenders are collected or
// a listing page fails to load. A failed page past the first one ends
// the run with the partial batch.
func (s *Scraper) Fetch(ctx context.Context, max int) ([]tender.RawTender, error) {
	ctx, span := tracer.Start(ctx, "rostender:Fetch")
	defer span.End()
	span.SetAttributes(attribute.Int("max", max))

	var items []tender.RawTender
	seen := map[string]bool{}
	totalPages := (max + listingPageSize - 1) / listingPageSize

	for page := 1; page <= totalPages; page++ {
		doc, err := s.client.Document(ctx, fmt.Sprintf("%s/extsearch?page=%d", s.client.BaseUrl, page))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			slog.WarnContext(ctx, "listing page failed, returning partial batch",
				"source", s.Source(), "page", page, "err", err)
			break
		}

		for _, link := range s.listingLinks(ctx, doc) {
			if seen[link.id] {
				continue
			}
			seen[link.id] = true

			items = append(items, s.scrapeDetail(ctx, link))
			if len(items) >= max {
				return items, nil
			}
		}
	}

	return items, nil
}

func (s *Scraper) listingLinks(ctx context.Context, doc *goquery.Document) []listingLink {
	var links []listingLink
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find("a[href]"), s.client.BaseUrl) {
		groups := tenderLinkRegex.FindStringSubmatch(anchor.Href)
		if groups == nil {
			continue
		}
		links = append(links, listingLink{
			id:    groups[1],
			href:  anchor.Href,
			title: anchor.Name,
		})
	}
	return links
}

// scrapeDetail always yields a record: when the detail page fails to
// load, the listing anchor's text and url are all we keep.
func (s *Scraper) scrapeDetail(ctx context.Context, link listingLink) tender.RawTender {
	ctx, span := tracer.Start(ctx, "rostender:scrapeDetail")
	defer span.End()
	span.SetAttributes(attribute.String("url", link.href))

	item := tender.RawTender{
		ID:        link.id,
		Name:      link.title,
		URL:       link.href,
		Organizer: organizerHidden,
		Source:    tender.SourceRostender,
	}

	doc, err := s.client.Document(ctx, link.href)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "detail page failed, keeping listing fields",
			"source", s.Source(), "url", link.href, "err", err)
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
	item.Customer = extractCustomer(doc)
	return item
}
