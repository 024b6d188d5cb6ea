package tender

import (
	"errors"
	"fmt"
)

// ErrMissingIdentity marks a record whose url or source is empty after
// field mapping. This is a data-integrity fault, never silently dropped.
var ErrMissingIdentity = errors.New("record is missing url/source after mapping")

// Normalize maps a source-vocabulary record to the api vocabulary.
// Dates render through DateText (parsed values get the display format,
// unparsed values keep their verbatim text). The four api-only fields
// stay null so the output shape is stable across sources.
func Normalize(raw RawTender) (Tender, error) {
	if raw.URL == "" || raw.Source == "" {
		return Tender{}, fmt.Errorf("%w: id=%q", ErrMissingIdentity, raw.ID)
	}

	return Tender{
		ID:        raw.ID,
		Title:     optional(raw.Name),
		Published: optional(raw.Published.String()),
		Deadline:  optional(raw.Deadline.String()),
		Price:     raw.Price,
		URL:       raw.URL,
		Source:    raw.Source,
		Location:  optional(raw.Location),
		Customer:  optional(raw.Customer),
		Organizer: optional(raw.Organizer),
	}, nil
}

// NormalizeAll fails on the first record with a broken identity.
func NormalizeAll(raw []RawTender) ([]Tender, error) {
	out := make([]Tender, 0, len(raw))
	for _, r := range raw {
		t, err := Normalize(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
