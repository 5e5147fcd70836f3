package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/pydocscraper/pkg/config"
	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// logTimeFormat carries the date so rotated files stay readable on their own.
const logTimeFormat = "2006-01-02 15:04:05.00"

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// openLogFile returns a size-rotated writer for the configured log file.
func openLogFile(cfg config.Config) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(cfg.LogsDir(), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", cfg.LogsDir())
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogsDir(), cfg.Paths.LogFile),
		MaxSize:    cfg.Log.MaxMegabytes,
		MaxBackups: cfg.Log.Backups,
	}, nil
}

// parseLevel maps a config level name to a log level.
func parseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// runID returns a short identifier attached to every line of one run.
func runID() string {
	return uuid.NewString()[:8]
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Parser finished (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
