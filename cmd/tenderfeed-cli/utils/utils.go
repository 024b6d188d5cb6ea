package utils

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func HeaderRow(columns []string) table.Row {
	return Row(columns)
}

func Row(values []string) table.Row {
	row := make(table.Row, 0, len(values))
	for _, v := range values {
		row = append(row, v)
	}
	return row
}
