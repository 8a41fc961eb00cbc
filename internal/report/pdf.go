package report

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/seenimoa/ratewatch/pkg/models"
)

// PDFEngine specifies which engine converts the HTML report to PDF.
type PDFEngine string

const (
	EngineWKHTML   PDFEngine = "wkhtmltopdf"
	EngineChromium PDFEngine = "chromium"
	EngineNone     PDFEngine = "none" // write HTML instead
)

var chromiumNames = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// PDFConfig holds PDF conversion settings.
type PDFConfig struct {
	Engine      PDFEngine // empty = auto-detect
	ChromePath  string    // explicit Chrome binary, e.g. browser.exec_path
	PageSize    string
	Orientation string // "portrait" or "landscape"
	Margin      string
}

// DefaultPDFConfig returns A4 portrait with 15mm margins.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize:    "A4",
		Orientation: "portrait",
		Margin:      "15mm",
	}
}

// DetectPDFEngine reports which conversion engine is installed.
func DetectPDFEngine(chromePath string) PDFEngine {
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return EngineWKHTML
	}
	if chromeBinary(chromePath) != "" {
		return EngineChromium
	}
	return EngineNone
}

func chromeBinary(explicit string) string {
	if explicit != "" {
		if path, err := exec.LookPath(explicit); err == nil {
			return path
		}
		return ""
	}
	for _, name := range chromiumNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// WritePDF renders rep as HTML and converts it to a PDF at path.
// Without a conversion engine the HTML is written next to path with an
// .html extension, and that path is returned.
func WritePDF(ctx context.Context, path string, rep *models.CommodityReport, cfg PDFConfig) (string, error) {
	if path == "" {
		return "", fmt.Errorf("output path is required")
	}
	html, err := GenerateHTML(rep)
	if err != nil {
		return "", err
	}

	engine := cfg.Engine
	if engine == "" {
		engine = DetectPDFEngine(cfg.ChromePath)
	}

	switch engine {
	case EngineWKHTML:
		return path, convertWithWKHTML(ctx, html, path, cfg)
	case EngineChromium:
		return path, convertWithChromium(ctx, html, path, cfg)
	case EngineNone:
		fallback := htmlPath(path)
		return fallback, writeOutput(fallback, []byte(html))
	default:
		return "", fmt.Errorf("unsupported PDF engine: %s", engine)
	}
}

func convertWithWKHTML(ctx context.Context, html, out string, cfg PDFConfig) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	args := []string{
		"--page-size", cfg.PageSize,
		"--orientation", cfg.Orientation,
		"--margin-top", cfg.Margin,
		"--margin-bottom", cfg.Margin,
		"--margin-left", cfg.Margin,
		"--margin-right", cfg.Margin,
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--quiet",
		tmpFile,
		out,
	}

	cmd := exec.CommandContext(ctx, "wkhtmltopdf", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("wkhtmltopdf failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func convertWithChromium(ctx context.Context, html, out string, cfg PDFConfig) error {
	bin := chromeBinary(cfg.ChromePath)
	if bin == "" {
		return fmt.Errorf("chromium not found in PATH")
	}

	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	absOutput, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--print-to-pdf=" + absOutput,
		"--print-to-pdf-no-header",
	}
	if strings.EqualFold(cfg.Orientation, "landscape") {
		args = append(args, "--landscape")
	}
	args = append(args, "file://"+tmpFile)

	cmd := exec.CommandContext(ctx, bin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("chromium PDF export failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func writeTempHTML(html string) (string, error) {
	f, err := os.CreateTemp("", "ratewatch-report-*.html")
	if err != nil {
		return "", fmt.Errorf("creating temp HTML: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(html); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp HTML: %w", err)
	}
	return f.Name(), nil
}

// htmlPath swaps a .pdf extension for .html.
func htmlPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return path[:len(path)-4] + ".html"
	}
	return path + ".html"
}
