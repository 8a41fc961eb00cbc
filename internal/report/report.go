// Package report renders a CommodityReport as an HTML page, console text or PDF.
//
// Failure kinds become display text here and nowhere else.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/seenimoa/ratewatch/pkg/models"
)

// Format specifies the output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "html", "text" (or "txt") and "pdf", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want html, text or pdf)", s)
	}
}

// Placeholder text for values that could not be extracted.
const (
	ErrorText        = "Error"
	NotFoundText     = "Not found"
	KiborMissingText = "KIBOR data not found"
	CharterErrorText = "Error fetching data"
	NoDateText       = "N/A"
)

// ════════════════════════════════════════════════════════════════════
// View model: flattened for templates and console output
// ════════════════════════════════════════════════════════════════════

// PriceRow is one labelled value.
type PriceRow struct {
	Label string
	Value string
}

// KiborRow is one tenor with bid and offer as printed.
type KiborRow struct {
	Tenor string
	Bid   string
	Offer string
}

// ReportData is the template model passed to the HTML template and the console writer.
type ReportData struct {
	Title     string
	Timestamp string

	OilAndCoal []PriceRow
	Bunker     string
	USDToPKR   string

	KiborOK      bool
	KiborMessage string // set when KiborOK is false
	KiborDate    string
	KiborRows    []KiborRow

	CharterLines []string
}

// Title of the rendered report.
const Title = "Daily Commodity Report"

// BuildReportData maps a report to display strings.
func BuildReportData(rep *models.CommodityReport) ReportData {
	d := ReportData{
		Title:     Title,
		Timestamp: rep.Timestamp,
		OilAndCoal: []PriceRow{
			{Label: "Brent Crude Oil (USD/barrel)", Value: displayValue(rep.Brent)},
			{Label: "WTI Crude Oil (USD/barrel)", Value: displayValue(rep.WTI)},
			{Label: "Coal (USD/ton)", Value: displayValue(rep.Coal)},
		},
		Bunker:   displayValue(rep.Bunker),
		USDToPKR: displayValue(rep.USDToPKR),
	}

	if rep.Kibor.OK() {
		d.KiborOK = true
		d.KiborDate = rep.Kibor.Rates.AsOfDate
		if d.KiborDate == "" {
			d.KiborDate = NoDateText
		}
		for _, e := range rep.Kibor.Rates.Entries() {
			d.KiborRows = append(d.KiborRows, KiborRow{Tenor: e.Tenor, Bid: e.Bid, Offer: e.Offer})
		}
	} else {
		d.KiborMessage = kiborMessage(rep.Kibor.Failure)
	}

	if rep.CharterRates.OK() {
		d.CharterLines = rep.CharterRates.Lines
	} else {
		d.CharterLines = []string{CharterErrorText}
	}
	return d
}

func displayValue(v models.Value) string {
	switch v.Failure {
	case models.FailureNone:
		return v.Text
	case models.FailureMissing:
		return NotFoundText
	default:
		return ErrorText
	}
}

func kiborMessage(kind models.FailureKind) string {
	if kind == models.FailureMissing {
		return KiborMissingText
	}
	return ErrorText
}

// ════════════════════════════════════════════════════════════════════
// Rendering
// ════════════════════════════════════════════════════════════════════

var reportTemplate = template.Must(template.New("report").Parse(ReportTemplate))

// Render writes rep to w in the given format.
// PDF needs a browser and a file; use WritePDF for it.
func Render(w io.Writer, rep *models.CommodityReport, format Format) error {
	data := BuildReportData(rep)
	switch format {
	case FormatHTML, "":
		if err := reportTemplate.Execute(w, data); err != nil {
			return fmt.Errorf("executing template: %w", err)
		}
		return nil
	case FormatText:
		return renderText(w, data)
	default:
		return fmt.Errorf("format %q cannot be streamed", format)
	}
}

// GenerateHTML returns the report as a complete HTML document.
func GenerateHTML(rep *models.CommodityReport) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, rep, FormatHTML); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile writes the HTML report to path, creating parent directories.
func WriteFile(path string, rep *models.CommodityReport) error {
	html, err := GenerateHTML(rep)
	if err != nil {
		return err
	}
	return writeOutput(path, []byte(html))
}

func writeOutput(path string, b []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
