package cloudbeds

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"hostel-analytics/config"
	"hostel-analytics/utils"
)

// tableSelector matches the reservations grid of the report page.
const tableSelector = "table"

// ErrNoTable is returned when the page rendered without any table.
var ErrNoTable = errors.New("cloudbeds: no reservations table on page")

// Fetcher loads a reservations report page in headless Chrome and returns the
// table markup, ready to be ingested like a pasted table.
type Fetcher struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Fetcher.
func New(cfg *config.Config, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch navigates to reportURL and returns the outer HTML of the first table.
func (f *Fetcher) Fetch(ctx context.Context, reportURL string) (string, error) {
	if strings.TrimSpace(reportURL) == "" {
		return "", fmt.Errorf("cloudbeds: empty report URL")
	}

	chromeBin := findChromeBinary(f.cfg.ChromeBin)
	f.logger.Info("[cloudbeds] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var html string
	err := f.retry.Do(ctx, "fetch-report", func(ctx context.Context) error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, time.Duration(f.cfg.FetchTimeoutSec)*time.Second)
		defer cancelTimeout()

		var out string
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(reportURL),
			chromedp.WaitVisible(tableSelector, chromedp.ByQuery),
			chromedp.OuterHTML(tableSelector, &out, chromedp.ByQuery),
		)
		if err != nil {
			return fmt.Errorf("chromedp run: %w", err)
		}
		if !strings.Contains(strings.ToLower(out), "<tr") {
			return ErrNoTable
		}
		html = out
		return nil
	})
	if err != nil {
		return "", err
	}

	f.logger.Info("[cloudbeds] Fetched report table (%d bytes)", len(html))
	return html, nil
}

// findChromeBinary prefers the configured binary, then PATH, then common install locations.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
