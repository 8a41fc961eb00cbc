package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Console labels differ slightly from the page labels.
var textLabels = []string{
	"Brent Crude Oil (USD/barrel)",
	"WTI Crude Oil (USD/barrel)",
	"API-style Coal (USD/ton)",
}

func renderText(w io.Writer, d ReportData) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "\n Daily Commodity Rates\n\n")
	for i, row := range d.OilAndCoal {
		label := row.Label
		if i < len(textLabels) {
			label = textLabels[i]
		}
		fmt.Fprintf(bw, "%s: %s\n", label, row.Value)
	}
	fmt.Fprintf(bw, "Global Average Bunker Fuel Price (USD/mt): %s\n", d.Bunker)
	fmt.Fprintf(bw, "USD to PKR Exchange Rate: %s\n", d.USDToPKR)
	fmt.Fprintf(bw, "\n Timestamp: %s\n\n", d.Timestamp)

	fmt.Fprintln(bw, " KIBOR Information:")
	if !d.KiborOK {
		fmt.Fprintf(bw, "  %s\n", d.KiborMessage)
	} else {
		fmt.Fprintf(bw, "  As on %s:\n", d.KiborDate)
		if len(d.KiborRows) > 0 {
			fmt.Fprintln(bw, kiborTable(d.KiborRows))
		}
	}

	fmt.Fprintln(bw, "\n Daily Charter Rates:")
	for _, line := range d.CharterLines {
		fmt.Fprintln(bw, " ", line)
	}

	return bw.Flush()
}

func kiborTable(rows []KiborRow) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Tenor", "Bid", "Offer"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Tenor, r.Bid + "%", r.Offer + "%"})
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return indent(t.Render(), "    ")
}

func indent(s, prefix string) string {
	out := make([]byte, 0, len(s)+len(prefix)*8)
	out = append(out, prefix...)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		if s[i] == '\n' {
			out = append(out, prefix...)
		}
	}
	return string(out)
}
