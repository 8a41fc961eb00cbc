// ratewatch collects commodity, FX, KIBOR and charter rates into one daily report.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seenimoa/ratewatch/api"
	"github.com/seenimoa/ratewatch/internal/config"
	"github.com/seenimoa/ratewatch/internal/datasource"
	"github.com/seenimoa/ratewatch/internal/logging"
	"github.com/seenimoa/ratewatch/internal/metrics"
	"github.com/seenimoa/ratewatch/internal/report"
	"github.com/seenimoa/ratewatch/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set in PersistentPreRunE.
var (
	cfg *config.Config
	log *logrus.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ratewatch",
	Short: "Daily commodity, FX, KIBOR and charter-rate report",
	Long: `ratewatch scrapes Brent, WTI, coal and global bunker prices, the USD/PKR
exchange rate, the KIBOR bid/offer table and daily charter rates, and renders
them as an HTML file, console text, or a page served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// newAggregator wires the production sources.
func newAggregator(m *metrics.Metrics) (*datasource.Aggregator, error) {
	loc, err := utils.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return nil, err
	}
	return datasource.NewAggregator(
		datasource.NewSources(cfg, log),
		datasource.WithConcurrency(cfg.Aggregate.Concurrency),
		datasource.WithLocation(loc),
		datasource.WithLogger(log),
		datasource.WithMetrics(m),
	), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ratewatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Collect all rates and write the HTML report file",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.Report.Output
		}
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		if format == report.FormatText {
			return fmt.Errorf("use 'ratewatch print' for console output")
		}

		agg, err := newAggregator(nil)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		rep := agg.Collect(ctx)

		written := output
		if format == report.FormatPDF {
			pdfCfg := report.DefaultPDFConfig()
			pdfCfg.ChromePath = cfg.Browser.ExecPath
			written, err = report.WritePDF(ctx, output, rep, pdfCfg)
		} else {
			err = report.WriteFile(output, rep)
		}
		if err != nil {
			return err
		}

		fmt.Printf("✅ Report generated: %s\n", written)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("output", "o", "", "output file (default: report.output, commodity_report.html)")
	reportCmd.Flags().String("format", "html", "output format: html or pdf")
}

// --- Print Command ---

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Collect all rates and print them to the console",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		if format == report.FormatPDF {
			return fmt.Errorf("use 'ratewatch report --format pdf' for PDF output")
		}

		agg, err := newAggregator(nil)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		return report.Render(cmd.OutOrStdout(), agg.Collect(ctx), format)
	},
}

func init() {
	printCmd.Flags().String("format", "text", "output format: text or html")
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report over HTTP at /",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}
		if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
			cfg.Metrics.Addr = addr
		}

		var m *metrics.Metrics
		if cfg.Metrics.Addr != "" {
			m = metrics.New()
		}
		agg, err := newAggregator(m)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		fmt.Printf("🌐 Serving report on http://%s/\n", cfg.Addr())
		return api.NewServer(cfg, agg, log, m).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default: api.port, 5000)")
	serveCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and upstream endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := utils.LoadLocation(cfg.Report.Timezone)
		if err != nil {
			return err
		}

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  ratewatch status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time:          %s (%s)\n", utils.Now(loc), loc)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    HTTP timeout:    %s\n", cfg.HTTP.Timeout)
		fmt.Printf("    Page load:       %s\n", cfg.Browser.NavigateTimeout)
		fmt.Printf("    Render timeout:  %s (poll %s)\n", cfg.Browser.RenderTimeout, cfg.Browser.PollInterval)
		fmt.Printf("    Concurrency:     %d\n", cfg.Aggregate.Concurrency)
		fmt.Printf("    Report file:     %s\n", cfg.Report.Output)
		fmt.Printf("    Report server:   %s\n", cfg.Addr())
		if cfg.Metrics.Addr != "" {
			fmt.Printf("    Metrics:         %s/metrics\n", cfg.Metrics.Addr)
		}
		fmt.Println()

		fmt.Println("  Sources:")
		for _, e := range config.CheckEndpoints(cfg) {
			fmt.Printf("    %-12s %s (%s)\n", e.Name+":", e.URL, e.Source)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
