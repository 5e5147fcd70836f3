package cli

import (
	"context"
	stderrors "errors"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pydocscraper/pkg/config"
	"github.com/matzehuels/pydocscraper/pkg/docs"
	"github.com/matzehuels/pydocscraper/pkg/errors"
	"github.com/matzehuels/pydocscraper/pkg/httputil"
	"github.com/matzehuels/pydocscraper/pkg/observability"
	"github.com/matzehuels/pydocscraper/pkg/output"
	"github.com/matzehuels/pydocscraper/pkg/pep"
)

// Scraping modes accepted as the root command's argument.
const (
	ModeWhatsNew       = "whats-new"
	ModeLatestVersions = "latest-versions"
	ModeDownload       = "download"
	ModePEP            = "pep"
)

// Modes lists every mode in help order.
var Modes = []string{ModeWhatsNew, ModeLatestVersions, ModeDownload, ModePEP}

// modeEnv is what a mode handler gets to work with.
type modeEnv struct {
	cfg     config.Config
	fetcher *httputil.Fetcher
	logger  *log.Logger
}

// modeResult is what a mode hands back to scrape. A nil table means the
// mode has nothing to emit.
type modeResult struct {
	table output.Table
	// report logs the mode's findings. It runs after the progress display
	// is gone, also when the mode failed.
	report func(*log.Logger)
}

type modeFunc func(ctx context.Context, env modeEnv) (modeResult, error)

// startProgress is swapped in tests.
var startProgress = installHooks

var modeHandlers = map[string]modeFunc{
	ModeWhatsNew:       runWhatsNew,
	ModeLatestVersions: runLatestVersions,
	ModeDownload:       runDownload,
	ModePEP:            runPEP,
}

// reportedError marks an error that was already written to the log.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already logged by the command that
// returned it, so main does not print it a second time.
func Reported(err error) bool {
	var r reportedError
	return stderrors.As(err, &r)
}

// runMode executes one scraping mode end to end.
func (c *CLI) runMode(ctx context.Context, mode string, opts *rootOpts) error {
	logger := loggerFromContext(ctx)
	logger.Info("Parser started")
	logger.Info("Command line arguments", "mode", mode, "output", opts.output, "clear_cache", opts.clearCache, "config", opts.configPath)

	handler, ok := modeHandlers[mode]
	if !ok {
		return errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
	}
	format, err := output.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	if err := c.scrape(ctx, mode, handler, format, opts); err != nil {
		logger.Error("Parser failed", "mode", mode, "err", err)
		return reportedError{err}
	}
	return nil
}

func (c *CLI) scrape(ctx context.Context, mode string, handler modeFunc, format output.Format, opts *rootOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	store, err := c.newCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.clearCache {
		n, err := store.Clear(ctx)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFilesystem, err, "clear cache")
		}
		logger.Info("Cache cleared", "entries", n)
	}

	stopProgress := startProgress(logger, c.Stderr, opts.verbose)
	defer observability.Reset()

	fetcher := httputil.NewFetcher(store, httputil.Options{
		Timeout:   c.cfg.HTTP.Timeout.Duration,
		UserAgent: c.cfg.HTTP.UserAgent,
		TTL:       c.cfg.Cache.TTL.Duration,
		Logger:    logger,
	})

	res, err := handler(ctx, modeEnv{cfg: c.cfg, fetcher: fetcher, logger: logger})
	stopProgress()
	if res.report != nil {
		res.report(logger)
	}
	if err != nil {
		return err
	}

	if res.table != nil {
		sink := output.NewSink(c.Stdout, c.cfg.ResultsDir(), logger)
		if err := sink.Emit(mode, res.table, format); err != nil {
			return err
		}
	}
	prog.done("Parser finished")
	return nil
}

func runWhatsNew(ctx context.Context, env modeEnv) (modeResult, error) {
	s, err := newScraper(env)
	if err != nil {
		return modeResult{}, err
	}
	t, err := s.WhatsNew(ctx)
	return modeResult{table: t}, err
}

func runLatestVersions(ctx context.Context, env modeEnv) (modeResult, error) {
	s, err := newScraper(env)
	if err != nil {
		return modeResult{}, err
	}
	t, err := s.LatestVersions(ctx)
	return modeResult{table: t}, err
}

func runDownload(ctx context.Context, env modeEnv) (modeResult, error) {
	s, err := newScraper(env)
	if err != nil {
		return modeResult{}, err
	}
	_, err = s.Download(ctx)
	return modeResult{}, err
}

func runPEP(ctx context.Context, env modeEnv) (modeResult, error) {
	r, err := pep.NewReconciler(env.fetcher, pep.Options{
		IndexURL:          env.cfg.URLs.PEPs,
		AbortOnFetchError: env.cfg.PEP.AbortOnFetchError,
		Logger:            env.logger,
	})
	if err != nil {
		return modeResult{}, err
	}
	report, err := r.Run(ctx)
	if report == nil {
		return modeResult{}, err
	}
	res := modeResult{report: report.Log}
	if err == nil {
		res.table = report.Table()
	}
	return res, err
}

func newScraper(env modeEnv) (*docs.Scraper, error) {
	return docs.NewScraper(env.fetcher, docs.Options{
		DocsURL:      env.cfg.URLs.Docs,
		DownloadsDir: env.cfg.DownloadsDir(),
		Logger:       env.logger,
	})
}
