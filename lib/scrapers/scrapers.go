// Package scrapers exposes the contract every tender source fulfills
// and a constructor keyed by source name.
package scrapers

import (
	"context"
	"errors"
	"fmt"

	"tenderfeed/lib/scrapers/b2b"
	"tenderfeed/lib/scrapers/fetch"
	"tenderfeed/lib/scrapers/rostender"
	"tenderfeed/lib/tender"
)

// Scraper fetches up to max tenders from one source. Implementations
// are sequential: one page at a time, paced between detail requests.
type Scraper interface {
	Source() string
	Fetch(ctx context.Context, max int) ([]tender.RawTender, error)
}

var ErrUnknownSource = errors.New("unknown tender source")

func Sources() []string {
	return []string{tender.SourceRostender, tender.SourceB2B}
}

// New builds the scraper for a source name. opts.BaseUrl may stay empty
// to target the real site.
func New(source string, opts fetch.ClientOptions) (Scraper, error) {
	switch source {
	case tender.SourceRostender:
		return rostender.New(opts)
	case tender.SourceB2B:
		return b2b.New(opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
}
