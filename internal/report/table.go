package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Alignment selects how a table column is justified.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column describes one table column.
type Column struct {
	Header string
	Align  Alignment
}

// Left returns a left-aligned column.
func Left(header string) Column { return Column{Header: header, Align: AlignLeft} }

// Right returns a right-aligned column, used for numbers.
func Right(header string) Column { return Column{Header: header, Align: AlignRight} }

// Table renders rows under columns with go-pretty. Headers are upper-cased.
// Rows shorter than columns are padded with blanks; extra cells are dropped.
// With color the borderless dark style is used, otherwise rounded borders.
func Table(columns []Column, rows [][]string, color bool) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	if color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleRounded)
	}

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       col.Align.align(),
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

func (a Alignment) align() text.Align {
	if a == AlignRight {
		return text.AlignRight
	}
	return text.AlignLeft
}
