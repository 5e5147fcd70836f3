package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/pydocscraper/pkg/observability"
)

// installHooks registers the run's observability hooks and returns a
// function that stops any progress display. The spinner only runs on a
// terminal and not in verbose mode, where debug lines would tear through it.
func installHooks(logger *log.Logger, w io.Writer, verbose bool) (stop func()) {
	observability.SetHTTPHooks(&logHTTPHooks{logger: logger})
	observability.SetCacheHooks(&logCacheHooks{logger: logger})

	if verbose || !isTerminal(w) {
		observability.SetCrawlHooks(&logCrawlHooks{logger: logger})
		return func() {}
	}

	sp := newSpinner("Fetching pages...")
	sp.out = w
	observability.SetCrawlHooks(&spinnerHooks{spinner: sp})
	sp.Start()
	return sp.Stop
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// spinnerHooks shows crawl progress as "table 2/4 · row 17/120".
type spinnerHooks struct {
	spinner *Spinner

	mu    sync.Mutex
	table int
	rows  int
	row   int
}

func (h *spinnerHooks) OnTableStart(_ context.Context, index, rows int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table = index + 1
	h.rows = rows
	h.row = 0
	h.spinner.SetMessage(h.message())
}

func (h *spinnerHooks) OnRowDone(_ context.Context, _ string, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.row++
	h.spinner.SetMessage(h.message())
}

func (h *spinnerHooks) message() string {
	return fmt.Sprintf("table %d · row %d/%d", h.table, h.row, h.rows)
}

// logCrawlHooks writes crawl progress as debug lines.
type logCrawlHooks struct {
	logger *log.Logger
}

func (h *logCrawlHooks) OnTableStart(_ context.Context, index, rows int) {
	h.logger.Debug("Walking table", "table", index+1, "rows", rows)
}

func (h *logCrawlHooks) OnRowDone(_ context.Context, subject, outcome string) {
	h.logger.Debug("Row done", "subject", subject, "outcome", outcome)
}

// logHTTPHooks writes every request as debug lines.
type logHTTPHooks struct {
	logger *log.Logger
}

func (h *logHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("Request", "method", method, "url", host+path)
}

func (h *logHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("Response", "method", method, "url", host+path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("Request failed", "method", method, "url", host+path, "err", err)
}

// logCacheHooks writes cache traffic as debug lines.
type logCacheHooks struct {
	logger *log.Logger
}

func (h *logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("Cache hit", "type", keyType)
}

func (h *logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("Cache miss", "type", keyType)
}

func (h *logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("Cache set", "type", keyType, "bytes", size)
}
