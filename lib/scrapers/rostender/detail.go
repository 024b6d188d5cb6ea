package rostender

import (
	"regexp"
	"strings"

	"tenderfeed/lib/htmlutil"
	"tenderfeed/lib/tender"
	"tenderfeed/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

func extractTitle(doc *goquery.Document) string {
	if title := htmlutil.Text(doc.Find("h1.tender__title").First()); title != "" {
		return title
	}
	return htmlutil.Text(doc.Find("h1").First())
}

func extractPublished(doc *goquery.Document) tender.DateText {
	text := htmlutil.Text(doc.Find(`.tender-info-header-start_date, .tender__date-start, [class*="date-start"]`).First())
	if text == "" {
		return tender.DateText{}
	}
	t, _, ok := tender.ParseDate(text)
	if !ok {
		return tender.DateText{}
	}
	// the site displays publish dates without a time component
	return tender.DateOnly(t)
}

var deadlineLabelRegex = regexp.MustCompile(`(?i)Окончание`)

func extractDeadline(doc *goquery.Document) tender.DateText {
	text := htmlutil.Text(doc.Find(`.tender__date-end, .tender__countdown-text, [class*="date-end"]`).First())
	if text == "" {
		if node := htmlutil.FindTextNode(doc, deadlineLabelRegex); node != nil && node.Parent != nil {
			text = textutil.Clean(htmlutil.GetText(node.Parent))
		}
	}
	if text == "" {
		return tender.DateText{}
	}

	t, _, ok := tender.ParseDate(text)
	if !ok {
		return tender.DateText{}
	}
	return tender.DateTime(t)
}

// extractPrice prefers the price container; failing that it settles for
// the first rouble-marked number anywhere on the page, which can pick
// up an unrelated amount on reshaped pages.
func extractPrice(doc *goquery.Document) tender.Price {
	if price := tender.ParsePrice(htmlutil.Text(doc.Find(".tender__price, .tender-short__price").First())); price.Valid {
		return price
	}
	if node := htmlutil.FindTextNode(doc, tender.CurrencyMarker); node != nil {
		return tender.ParsePrice(node.Data)
	}
	return tender.Price{}
}

var (
	locationLabelRegex   = regexp.MustCompile(`(?i)Место поставки`)
	locationSiblingRegex = regexp.MustCompile(`\s+(?:Организатор|Заказчик|Окончание|Документация)`)
)

// extractLocation takes the text of the container labeled "Место
// поставки", strips the label prefix and cuts everything past the next
// sibling-section label.
func extractLocation(doc *goquery.Document) string {
	node := htmlutil.FindTextNode(doc, locationLabelRegex)
	if node == nil {
		return ""
	}
	container := htmlutil.ClosestAncestor(node, "div", "section", "li", "tr", "td")
	if container == nil {
		return ""
	}

	text := textutil.Clean(htmlutil.GetText(container))
	if loc := locationLabelRegex.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	if cut := locationSiblingRegex.FindStringIndex(text); cut != nil {
		text = text[:cut[0]]
	}
	return textutil.Clean(strings.TrimLeft(text, ": "))
}

// generic breadcrumb entries that say nothing about the customer
var customerDenyList = map[string]bool{
	"главная": true,
	"тендеры": true,
	"закупки": true,
}

func extractCustomer(doc *goquery.Document) string {
	var found []string

	doc.Find("div.tender-customer-branch .list-branches a.list-branches__link").Each(func(_ int, a *goquery.Selection) {
		text := textutil.Clean(a.AttrOr("title", ""))
		if text == "" {
			text = htmlutil.Text(a)
		}
		if text != "" {
			found = append(found, text)
		}
	})

	if len(found) == 0 {
		doc.Find(`a[href*="/tendery-"], a[href*="/category/"], a[href*="/industry/"]`).Each(func(_ int, a *goquery.Selection) {
			text := textutil.Clean(a.AttrOr("title", ""))
			if text == "" {
				text = htmlutil.Text(a)
			}
			if text != "" {
				found = append(found, text)
			}
		})
	}

	doc.Find("nav.breadcrumbs a, ul.breadcrumbs a").Each(func(_ int, a *goquery.Selection) {
		text := htmlutil.Text(a)
		if text == "" || customerDenyList[textutil.NormalizeLabel(text)] {
			return
		}
		found = append(found, text)
	})

	var uniq []string
	seen := map[string]bool{}
	for _, text := range found {
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, text)
	}
	return strings.Join(uniq, ", ")
}
