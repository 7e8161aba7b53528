package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hostel-analytics/analysis"
	"hostel-analytics/config"
	"hostel-analytics/handlers"
	"hostel-analytics/models"
	"hostel-analytics/routes"
	"hostel-analytics/scraper/cloudbeds"
	"hostel-analytics/services"
	"hostel-analytics/spreadsheet"
	"hostel-analytics/storage"
	"hostel-analytics/utils"
)

const usage = `usage: hostel-analytics <command> [flags] [args]

commands:
  serve                 run the HTTP API
  ingest <paths...>     ingest spreadsheet files or folders (recursive)
  paste <file|->        ingest a pasted HTML or tab-separated table
  fetch <url>           fetch a Cloudbeds report table and ingest it

flags (ingest, paste, fetch):
  -property string      hostel name, overrides detection
  -week string          any date (YYYY-MM-DD) inside the intended week
  -analyze              request an AI analysis after ingesting
  -csv                  export the series to CSV_OUTPUT_PATH
  -pg                   export the series to PostgreSQL
`

// batchFlags are shared by every one-shot command.
type batchFlags struct {
	property string
	week     string
	analyze  bool
	csv      bool
	pg       bool
}

func parseBatchFlags(name string, args []string) (*batchFlags, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	bf := &batchFlags{}
	fs.StringVar(&bf.property, "property", "", "hostel name, overrides detection")
	fs.StringVar(&bf.week, "week", "", "any date (YYYY-MM-DD) inside the intended week")
	fs.BoolVar(&bf.analyze, "analyze", false, "request an AI analysis after ingesting")
	fs.BoolVar(&bf.csv, "csv", false, "export the series to CSV")
	fs.BoolVar(&bf.pg, "pg", false, "export the series to PostgreSQL")
	_ = fs.Parse(args)
	return bf, fs.Args()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := utils.NewLoggerWith(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Hostel Direct Bookings Analytics starting ===")
	logger.Info("Config: %d properties | concurrency: %d | retries: %d | ai: %q",
		len(cfg.Registry), cfg.MaxConcurrency, cfg.MaxRetries, cfg.AIProvider)
	logger.Debug("Properties: %s", strings.Join(cfg.Registry.Names(), ", "))

	analyst, closeAnalyst, err := newAnalysisService(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialise AI analyst: %v", err)
		os.Exit(1)
	}
	defer closeAnalyst()

	session := services.NewSession(cfg.Registry, spreadsheet.NewReader(), cfg.MaxConcurrency, logger)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "serve":
		err = serve(ctx, cfg, session, analyst, logger)
	case "ingest", "paste", "fetch":
		err = runBatch(ctx, cmd, args, cfg, session, analyst, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", cmd, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config, session *services.Session, analyst *services.AnalysisService, logger *utils.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	hb := handlers.NewHandlerBundle(session, analyst, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.NewRouter(hb, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runBatch(ctx context.Context, cmd string, args []string, cfg *config.Config, session *services.Session, analyst *services.AnalysisService, logger *utils.Logger) error {
	bf, rest := parseBatchFlags(cmd, args)
	if len(rest) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ov := services.Overrides{Property: bf.property, WeekStart: bf.week}

	var (
		result *models.BatchResult
		err    error
	)
	switch cmd {
	case "ingest":
		blobs, cerr := spreadsheet.NewCollector(logger).Collect(rest)
		if cerr != nil {
			return cerr
		}
		logger.Info("Found %d spreadsheet files", len(blobs))
		result, err = session.ProcessFiles(ctx, blobs, ov)
	case "paste":
		data, rerr := readPaste(rest[0])
		if rerr != nil {
			return rerr
		}
		result, err = session.ProcessPaste(ctx, data, ov)
	case "fetch":
		html, ferr := cloudbeds.New(cfg, logger).Fetch(ctx, rest[0])
		if ferr != nil {
			return ferr
		}
		result, err = session.ProcessPaste(ctx, html, ov)
	}
	if err != nil {
		return err
	}
	logger.Info("Batch %s merged into %s (%d rows seen, %d direct reservations kept)",
		result.BatchID, result.Period.Label, result.Diagnostics.RowsSeen, result.Diagnostics.ReservationsKept)

	var report string
	if bf.analyze {
		if analyst == nil {
			logger.Warn("-analyze requested but AI_PROVIDER is not set, skipping")
		} else if report, err = session.Analyze(ctx, analyst); err != nil {
			return err
		}
	}

	series := session.Series()
	services.PrintReport(os.Stdout, series, session.Warnings(), report)

	if bf.csv {
		if err := export(ctx, logger, "CSV", series, func() (storage.SeriesWriter, error) {
			return storage.NewCSVWriter(cfg.CSVOutputPath)
		}); err != nil {
			return err
		}
	}
	if bf.pg {
		if err := export(ctx, logger, "PostgreSQL", series, func() (storage.SeriesWriter, error) {
			return storage.NewPostgresWriter(cfg.DSN())
		}); err != nil {
			logger.Error("Make sure PostgreSQL is running: docker compose up -d")
			return err
		}
	}
	return nil
}

func export(ctx context.Context, logger *utils.Logger, name string, series models.TimeSeries, open func() (storage.SeriesWriter, error)) error {
	w, err := open()
	if err != nil {
		return fmt.Errorf("%s export: %w", name, err)
	}
	defer w.Close()

	if err := w.Write(ctx, series); err != nil {
		return fmt.Errorf("%s export: %w", name, err)
	}
	logger.Info("Series exported to %s (%d periods)", name, len(series))
	return nil
}

func readPaste(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read paste file: %w", err)
	}
	return string(data), nil
}

// newAnalysisService returns nil when no AI provider is configured.
func newAnalysisService(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*services.AnalysisService, func(), error) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	switch cfg.AIProvider {
	case "gemini":
		model := cfg.AIModel
		if model == "" {
			model = "gemini-1.5-flash"
		}
		client, err := analysis.NewGeminiClient(ctx, cfg.GeminiAPIKey, model, cfg.AIMaxTokens)
		if err != nil {
			return nil, func() {}, err
		}
		return services.NewAnalysisService(client, retry, logger), func() { _ = client.Close() }, nil
	case "openai":
		model := cfg.AIModel
		if model == "" {
			model = "gpt-4o-mini"
		}
		client := analysis.NewOpenAIClient(cfg.OpenAIAPIKey, model, cfg.AIMaxTokens)
		return services.NewAnalysisService(client, retry, logger), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}
