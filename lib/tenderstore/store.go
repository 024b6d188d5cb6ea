// Package tenderstore persists fetched batches as a UTF-8 csv table in
// the sources' column vocabulary.
package tenderstore

import (
	"encoding/csv"
	"os"

	"tenderfeed/lib/tender"
)

// Columns is the fixed schema, one row per tender.
var Columns = []string{
	"id",
	"Наименование",
	"Дата Публикации",
	"Дата Окончания",
	"Начальная цена",
	"Место Поставки",
	"Организатор",
	"Заказчик/Отрасли",
	"Ссылка",
	"Источник",
}

func Row(item tender.RawTender) []string {
	return []string{
		item.ID,
		item.Name,
		item.Published.String(),
		item.Deadline.String(),
		item.Price.String(),
		item.Location,
		item.Organizer,
		item.Customer,
		item.URL,
		item.Source,
	}
}

// Save writes header plus rows in batch order. I/O failures propagate
// to the caller, no partial-file cleanup is attempted.
func Save(path string, items []tender.RawTender) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(Columns); err != nil {
		file.Close()
		return err
	}
	for _, item := range items {
		if err := writer.Write(Row(item)); err != nil {
			file.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// Load reads a saved table back, header first.
func Load(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return csv.NewReader(file).ReadAll()
}
