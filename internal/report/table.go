package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// matchTable lays out the matches; markdown output reuses it.
func matchTable(r Report) table.Writer {
	enriched := r.Enriched()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// keep catalog labels as written ("PS5", "Xbox")
	tw.Style().Format.Header = text.FormatDefault

	header := table.Row{"#", r.Primary.Label, r.Secondary.Label, "Score"}
	if enriched {
		header = append(header, "Released", "Metacritic")
	}
	tw.AppendHeader(header)

	for i, m := range r.Matches {
		row := table.Row{i + 1, m.Source, m.Match, m.Score}
		if enriched {
			released, metacritic := "", ""
			if m.Game != nil {
				released = m.Game.Released
				if m.Game.Metacritic > 0 {
					metacritic = strconv.Itoa(m.Game.Metacritic)
				}
			}
			row = append(row, released, metacritic)
		}
		tw.AppendRow(row)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw
}

func renderTable(w io.Writer, r Report) error {
	if len(r.Matches) > 0 {
		if _, err := fmt.Fprintln(w, matchTable(r).Render()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, summaryLine(r))
	return err
}

func summaryLine(r Report) string {
	return fmt.Sprintf("%d matches at threshold %d (%s titles: %d, %s titles: %d, %s only: %d)",
		len(r.Matches), r.Threshold,
		r.Primary.Label, r.Primary.Titles,
		r.Secondary.Label, r.Secondary.Titles,
		r.Primary.Label, len(r.Unmatched))
}
