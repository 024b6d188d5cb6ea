// Package tender holds the record model shared by the scrapers, the
// csv store and the http api: a source-vocabulary RawTender produced by
// scraping and an api-vocabulary Tender produced by Normalize.
package tender

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	SourceRostender = "rostender"
	SourceB2B       = "b2b"
)

// PriceNotStated is emitted wherever a tender carries no extractable price.
const PriceNotStated = "цена не указана"

// Price is an optional currency amount. The zero value means
// "not stated" and renders as the PriceNotStated sentinel.
type Price struct {
	Value float64
	Valid bool
}

func PriceOf(value float64) Price {
	return Price{Value: value, Valid: true}
}

func (p Price) String() string {
	if !p.Valid {
		return PriceNotStated
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return json.Marshal(PriceNotStated)
	}
	return json.Marshal(p.Value)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*p = PriceOf(value)
		return nil
	}
	*p = Price{}
	return nil
}

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
)

// DateText is a date that either parsed into a timestamp or survives as
// the verbatim text it was matched from. Partial information beats none.
type DateText struct {
	time   time.Time
	layout string
	text   string
}

// DateOnly renders without the time component.
func DateOnly(t time.Time) DateText {
	return DateText{time: t, layout: layoutDate}
}

func DateTime(t time.Time) DateText {
	return DateText{time: t, layout: layoutDateTime}
}

// RawDate carries date text that failed numeric parsing.
func RawDate(text string) DateText {
	return DateText{text: text}
}

func (d DateText) IsZero() bool {
	return d.time.IsZero() && d.text == ""
}

func (d DateText) Time() (time.Time, bool) {
	return d.time, !d.time.IsZero()
}

func (d DateText) String() string {
	if !d.time.IsZero() {
		return d.time.Format(d.layout)
	}
	return d.text
}

// RawTender is a scraped record still in the source's vocabulary; the
// comments give the column each field maps to in the persisted table.
type RawTender struct {
	ID        string   // id
	Name      string   // Наименование
	Published DateText // Дата Публикации
	Deadline  DateText // Дата Окончания
	Price     Price    // Начальная цена
	URL       string   // Ссылка
	Location  string   // Место Поставки
	Organizer string   // Организатор
	Customer  string   // Заказчик/Отрасли
	Source    string   // Источник
}

// Tender is the api-facing record. Optional fields are pointers so
// consumers always see the full key set, null when absent.
type Tender struct {
	ID             string  `json:"id"`
	Title          *string `json:"title"`
	Published      *string `json:"published"`
	Deadline       *string `json:"deadline"`
	Price          Price   `json:"price"`
	Description    *string `json:"description"`
	URL            string  `json:"url"`
	Source         string  `json:"source"`
	Location       *string `json:"location"`
	Customer       *string `json:"customer"`
	Organizer      *string `json:"organizer"`
	IndustriesText *string `json:"industries_text"`
}
