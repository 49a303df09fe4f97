package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary describes the outcome of one city run
type Summary struct {
	City              string
	LowerBound        int
	UpperBound        int
	PostalCodes       int
	Covered           int
	Failed            int
	TotalRows         int
	UniqueRestaurants int
	OutputFile        string
	Elapsed           time.Duration
}

// Empty reports whether no postal code produced any record
func (s Summary) Empty() bool {
	return s.TotalRows == 0
}

// Render prints s as a two-column table
func Render(out io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Run summary: %s", s.City)
	t.AppendHeader(table.Row{"Metric", "Value"})

	t.AppendRows([]table.Row{
		{"Postal range", fmt.Sprintf("%d - %d", s.LowerBound, s.UpperBound)},
		{"Postal codes scanned", s.PostalCodes},
		{"Postal codes with restaurants", s.Covered},
		{"Postal codes failed", s.Failed},
		{"Unique restaurants", s.UniqueRestaurants},
		{"Total rows", s.TotalRows},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Output", s.OutputFile})
	t.AppendRow(table.Row{"Elapsed", s.Elapsed.Round(time.Millisecond)})

	t.Render()
}

// RenderTable prints an arbitrary table under title
func RenderTable(out io.Writer, title string, header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("%s", title)

	t.AppendHeader(toRow(header))
	for _, r := range rows {
		t.AppendRow(toRow(r))
	}
	t.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
