package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/seenimoa/ratewatch/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func sampleReport() *models.CommodityReport {
	kibor := models.NewKiborRates()
	kibor.AsOfDate = "12 June 2024"
	kibor.Set("1 Month", models.BidOffer{Bid: "10.25", Offer: "10.50"})
	kibor.Set("3 Month", models.BidOffer{Bid: "20.10", Offer: "20.35"})

	return &models.CommodityReport{
		Timestamp:   "2024-06-12 09:30:05",
		GeneratedAt: time.Date(2024, 6, 12, 9, 30, 5, 0, time.UTC),
		Brent:       models.Text("82.45"),
		WTI:         models.Text("78.02"),
		Coal:        models.Text("134.50"),
		Bunker:      models.Text("598.00"),
		USDToPKR:    models.Text("278.46"),
		Kibor:       models.KiborResult{Rates: kibor},
		CharterRates: models.CharterRates{Lines: []string{
			"Handysize $12,000/day",
			"Supramax $15,500/day",
		}},
	}
}

func failedReport() *models.CommodityReport {
	return &models.CommodityReport{
		Timestamp:    "2024-06-12 09:30:05",
		Brent:        models.Failed(models.FailureNetwork),
		WTI:          models.Failed(models.FailureParse),
		Coal:         models.Failed(models.FailureMissing),
		Bunker:       models.Failed(models.FailureMissing),
		USDToPKR:     models.Failed(models.FailureNetwork),
		Kibor:        models.KiborResult{Failure: models.FailureMissing},
		CharterRates: models.CharterRates{Failure: models.FailureNetwork},
	}
}

func render(t *testing.T, rep *models.CommodityReport, f Format) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, rep, f); err != nil {
		t.Fatalf("Render(%s): %v", f, err)
	}
	return buf.String()
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// View model
// ════════════════════════════════════════════════════════════════════

func TestBuildReportData(t *testing.T) {
	got := BuildReportData(sampleReport())
	want := ReportData{
		Title:     "Daily Commodity Report",
		Timestamp: "2024-06-12 09:30:05",
		OilAndCoal: []PriceRow{
			{Label: "Brent Crude Oil (USD/barrel)", Value: "82.45"},
			{Label: "WTI Crude Oil (USD/barrel)", Value: "78.02"},
			{Label: "Coal (USD/ton)", Value: "134.50"},
		},
		Bunker:    "598.00",
		USDToPKR:  "278.46",
		KiborOK:   true,
		KiborDate: "12 June 2024",
		KiborRows: []KiborRow{
			{Tenor: "1 Month", Bid: "10.25", Offer: "10.50"},
			{Tenor: "3 Month", Bid: "20.10", Offer: "20.35"},
		},
		CharterLines: []string{"Handysize $12,000/day", "Supramax $15,500/day"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildReportData mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReportDataFailures(t *testing.T) {
	got := BuildReportData(failedReport())

	values := []string{got.OilAndCoal[0].Value, got.OilAndCoal[1].Value, got.OilAndCoal[2].Value, got.Bunker, got.USDToPKR}
	want := []string{"Error", "Error", "Not found", "Not found", "Error"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
	if got.KiborOK || got.KiborMessage != "KIBOR data not found" {
		t.Errorf("kibor: ok=%v message=%q", got.KiborOK, got.KiborMessage)
	}
	if diff := cmp.Diff([]string{"Error fetching data"}, got.CharterLines); diff != "" {
		t.Errorf("charter mismatch (-want +got):\n%s", diff)
	}
}

func TestKiborPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		result models.KiborResult
		want   string
	}{
		{"missing section", models.KiborResult{Failure: models.FailureMissing}, "KIBOR data not found"},
		{"parse failure", models.KiborResult{Failure: models.FailureParse}, "Error"},
		{"network failure", models.KiborResult{Failure: models.FailureNetwork}, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := sampleReport()
			rep.Kibor = tt.result
			if got := BuildReportData(rep).KiborMessage; got != tt.want {
				t.Errorf("KiborMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKiborWithoutDate(t *testing.T) {
	rep := sampleReport()
	rep.Kibor.Rates.AsOfDate = ""
	if got := BuildReportData(rep).KiborDate; got != "N/A" {
		t.Errorf("KiborDate = %q, want N/A", got)
	}
}

func TestEmptyCharterListIsNotAnError(t *testing.T) {
	rep := sampleReport()
	rep.CharterRates = models.CharterRates{Lines: []string{}}
	if got := BuildReportData(rep).CharterLines; len(got) != 0 {
		t.Errorf("CharterLines = %q, want none", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// HTML
// ════════════════════════════════════════════════════════════════════

func TestRenderHTML(t *testing.T) {
	out := render(t, sampleReport(), FormatHTML)
	assertContains(t, out,
		"<!DOCTYPE html>",
		"<title>Daily Commodity Report</title>",
		"<strong>Timestamp:</strong> 2024-06-12 09:30:05",
		"<tr><td>Brent Crude Oil (USD/barrel)</td><td>82.45</td></tr>",
		"<tr><td>Coal (USD/ton)</td><td>134.50</td></tr>",
		"<p>598.00</p>",
		"<p>278.46</p>",
		"<p>As on 12 June 2024</p>",
		"<tr><td>1 Month</td><td>Bid: 10.25%</td><td>Offer: 10.50%</td></tr>",
		"<li>Handysize $12,000/day</li>",
	)
	if strings.Index(out, "1 Month") > strings.Index(out, "3 Month") {
		t.Error("tenors out of order")
	}
}

func TestRenderHTMLFailures(t *testing.T) {
	out := render(t, failedReport(), FormatHTML)
	assertContains(t, out,
		"<td>Error</td>",
		"<td>Not found</td>",
		"<p>KIBOR data not found</p>",
		"<li>Error fetching data</li>",
	)
	if strings.Contains(out, "As on") {
		t.Error("failed KIBOR section should not print a date")
	}
}

func TestRenderHTMLEscapesScrapedText(t *testing.T) {
	rep := sampleReport()
	rep.CharterRates.Lines = []string{`<script>alert("$")</script>`}
	out := render(t, rep, FormatHTML)
	if strings.Contains(out, "<script>alert") {
		t.Error("scraped markup was not escaped")
	}
	assertContains(t, out, "&lt;script&gt;")
}

// ════════════════════════════════════════════════════════════════════
// Text
// ════════════════════════════════════════════════════════════════════

func TestRenderText(t *testing.T) {
	out := render(t, sampleReport(), FormatText)
	assertContains(t, out,
		"Daily Commodity Rates",
		"Brent Crude Oil (USD/barrel): 82.45",
		"WTI Crude Oil (USD/barrel): 78.02",
		"API-style Coal (USD/ton): 134.50",
		"Global Average Bunker Fuel Price (USD/mt): 598.00",
		"USD to PKR Exchange Rate: 278.46",
		" Timestamp: 2024-06-12 09:30:05",
		" KIBOR Information:",
		"  As on 12 June 2024:",
		"1 Month",
		"10.25%",
		"20.35%",
		" Daily Charter Rates:",
		"  Handysize $12,000/day",
	)
}

func TestRenderTextFailures(t *testing.T) {
	out := render(t, failedReport(), FormatText)
	assertContains(t, out,
		"Brent Crude Oil (USD/barrel): Error",
		"API-style Coal (USD/ton): Not found",
		"  KIBOR data not found",
		"  Error fetching data",
	)
}

func TestRenderRejectsPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), FormatPDF); err == nil {
		t.Fatal("expected an error streaming PDF")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"html", FormatHTML, false},
		{"", FormatHTML, false},
		{"TEXT", FormatText, false},
		{"txt", FormatText, false},
		{"pdf", FormatPDF, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = (%q, %v)", tt.in, got, err)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Files
// ════════════════════════════════════════════════════════════════════

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "commodity_report.html")
	if err := WriteFile(path, sampleReport()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	assertContains(t, string(b), "Daily Commodity Report", "82.45")
}

func TestWritePDFWithoutEngineWritesHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	cfg := DefaultPDFConfig()
	cfg.Engine = EngineNone

	written, err := WritePDF(context.Background(), path, sampleReport(), cfg)
	if err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if want := strings.TrimSuffix(path, ".pdf") + ".html"; written != want {
		t.Errorf("written = %q, want %q", written, want)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("fallback file missing: %v", err)
	}
}

func TestWritePDFRequiresPath(t *testing.T) {
	if _, err := WritePDF(context.Background(), "", sampleReport(), DefaultPDFConfig()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestHTMLPath(t *testing.T) {
	if got := htmlPath("a/b.PDF"); got != "a/b.html" {
		t.Errorf("htmlPath = %q", got)
	}
	if got := htmlPath("report"); got != "report.html" {
		t.Errorf("htmlPath = %q", got)
	}
}
