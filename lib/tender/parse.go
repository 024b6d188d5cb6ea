package tender

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateRegex = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2,4})(?:\s*(?:в|,)?\s*(\d{1,2}):(\d{2}))?`)

// ParseDate finds the first d.m.yy or d.m.yyyy occurrence in text,
// expanding two-digit years past 2000. hasTime reports whether a
// trailing HH:MM component was matched.
func ParseDate(text string) (t time.Time, hasTime bool, ok bool) {
	groups := dateRegex.FindStringSubmatch(text)
	if groups == nil {
		return time.Time{}, false, false
	}

	day, _ := strconv.Atoi(groups[1])
	month, _ := strconv.Atoi(groups[2])
	year, _ := strconv.Atoi(groups[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false, false
	}

	hour, minute := 0, 0
	if groups[4] != "" {
		hour, _ = strconv.Atoi(groups[4])
		minute, _ = strconv.Atoi(groups[5])
		if hour > 23 || minute > 59 {
			return time.Time{}, false, false
		}
		hasTime = true
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), hasTime, true
}

// "руб" must not run into a longer word, so a following cyrillic letter
// disqualifies the match.
var priceRegex = regexp.MustCompile(`(?i)([\d\s.,]+)\s*(?:₽|руб(?:[^а-яё]|$))`)

// CurrencyMarker matches any rouble-marked fragment of text; the
// scrapers use it for their document-wide price fallback.
var CurrencyMarker = regexp.MustCompile(`(?i)₽|руб(?:[^а-яё]|$)`)

// ParsePrice extracts a rouble amount from free text. Grouping spaces
// are stripped and a comma decimal separator becomes a period.
// Malformed numeric text yields absence, never zero.
func ParsePrice(text string) Price {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	groups := priceRegex.FindStringSubmatch(text)
	if groups == nil {
		return Price{}
	}

	raw := strings.TrimSpace(groups[1])
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Price{}
	}
	return PriceOf(value)
}
