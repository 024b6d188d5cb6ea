package b2b

import (
	"regexp"
	"strings"
	"time"

	"tenderfeed/lib/htmlutil"
	"tenderfeed/lib/tender"
	"tenderfeed/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

func extractTitle(doc *goquery.Document) string {
	h1 := doc.Find(`h1[itemprop="headline"], h1, .title-h2`).First()
	if h1.Length() == 0 {
		return htmlutil.Text(doc.Find("title"))
	}

	h1.Find(".favorite-container, .favorite-click, .on_boarding-step-1").Remove()
	if title := textutil.Clean(htmlutil.DirectText(h1)); title != "" {
		return title
	}
	return htmlutil.Text(h1)
}

var deadlineRegex = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}(?: \d{2}:\d{2})?`)

// extractDeadline keeps the matched date text as-is; the source renders
// it in a display-ready format already.
func extractDeadline(doc *goquery.Document) tender.DateText {
	raw := htmlutil.Text(doc.Find("#trade_info_date_end"))
	if raw == "" {
		return tender.DateText{}
	}
	match := deadlineRegex.FindString(raw)
	if match == "" {
		return tender.DateText{}
	}
	return tender.RawDate(match)
}

func extractOrganizer(doc *goquery.Document) string {
	tds := doc.Find("#trade-info-organizer-name").Find("td")
	if tds.Length() < 2 {
		return ""
	}
	return htmlutil.Text(tds.Eq(1))
}

func extractPublished(doc *goquery.Document) tender.DateText {
	raw := htmlutil.Text(doc.Find(`span[itemprop="datePublished"]`))
	if raw == "" {
		return tender.DateText{}
	}
	if t, err := time.Parse("02.01.2006 15:04", raw); err == nil {
		return tender.DateTime(t)
	}
	if t, err := time.Parse("02.01.2006", raw); err == nil {
		return tender.DateOnly(t)
	}
	// partial information beats none
	return tender.RawDate(raw)
}

func extractPrice(doc *goquery.Document) tender.Price {
	priceEl := doc.Find("#trade-info-lot-price-main").First()
	if priceEl.Length() == 0 {
		priceEl = doc.Find(`[id*="price"]`).First()
	}
	if price := tender.ParsePrice(htmlutil.Text(priceEl)); price.Valid {
		return price
	}
	// document-wide fallback, may latch onto an unrelated amount
	if node := htmlutil.FindTextNode(doc, tender.CurrencyMarker); node != nil {
		return tender.ParsePrice(node.Data)
	}
	return tender.Price{}
}

const locationNotStated = "Место поставки не указано"

func extractLocation(doc *goquery.Document) string {
	tds := doc.Find("tr#trade_info_address").Find("td")
	if tds.Length() < 2 {
		return locationNotStated
	}
	if location := htmlutil.Text(tds.Eq(1)); location != "" {
		return location
	}
	return locationNotStated
}

var customerDenyList = map[string]bool{
	"главная":    true,
	"тендеры":    true,
	"закупки":    true,
	"b2b-center": true,
}

func extractCustomer(doc *goquery.Document) string {
	var found []string
	seen := map[string]bool{}

	doc.Find(`nav.breadcrumbs a, ul.breadcrumbs a, [itemtype*="BreadcrumbList"] a`).Each(func(_ int, a *goquery.Selection) {
		text := htmlutil.Text(a)
		if text == "" || customerDenyList[textutil.NormalizeLabel(text)] {
			return
		}
		if seen[text] {
			return
		}
		seen[text] = true
		found = append(found, text)
	})

	return strings.Join(found, ", ")
}
