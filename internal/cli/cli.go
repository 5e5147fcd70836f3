// Package cli implements the pydocscraper command-line interface.
//
// The root command takes one positional mode:
//   - whats-new: list the "What's New in Python" articles
//   - latest-versions: list documented Python versions and their status
//   - download: save the A4 PDF archive of the documentation
//   - pep: reconcile PEP index statuses with the PEP pages
//
// Results go to stdout as plain lines, as a pretty table (-o pretty) or to a
// CSV file in the results directory (-o file).
//
// # Logging
//
// Every run logs to stderr and to a rotating file under the logs directory.
// --verbose (-v) switches to debug level, which also logs each HTTP request.
// Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pydocscraper/pkg/buildinfo"
	"github.com/matzehuels/pydocscraper/pkg/cache"
	"github.com/matzehuels/pydocscraper/pkg/config"
	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// appName is the application name used for directories and display.
const appName = "pydocscraper"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer

	cfg     config.Config
	logFile io.Closer
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		Stderr: w,
		cfg:    config.Default(),
	}
}

// rootOpts holds the flags shared by the root command and its subcommands.
type rootOpts struct {
	clearCache bool
	output     string
	verbose    bool
	configPath string
	noLogFile  bool
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	opts := &rootOpts{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:   "pydocscraper <mode>",
		Short: "Scrape the Python documentation and the PEP index",
		Long: `pydocscraper collects data from docs.python.org and peps.python.org.

Modes:
  whats-new        articles of the "What's New in Python" series
  latest-versions  documented Python versions and their status
  download         the A4 PDF archive of the documentation
  pep              PEP counts per status, checked against every PEP page`,
		Example: `  pydocscraper pep -o pretty
  pydocscraper latest-versions -o file
  pydocscraper whats-new --clear-cache`,
		Version:       buildinfo.Version,
		ValidArgs:     Modes,
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMode(cmd.Context(), args[0], opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().BoolVarP(&opts.clearCache, "clear-cache", "c", false, "clear the response cache before scraping")
	root.Flags().StringVarP(&opts.output, "output", "o", "", "output format: pretty or file (plain lines if empty)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to the TOML config file")
	root.PersistentFlags().BoolVar(&opts.noLogFile, "no-log-file", false, "log to stderr only")

	_ = root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"pretty", "file"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config and builds the run logger.
func (c *CLI) setup(cmd *cobra.Command, opts *rootOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := parseLevel(cfg.Log.Level)
	if opts.verbose {
		level = log.DebugLevel
	}

	w := c.Stderr
	// Only scraping runs write the log file; helper subcommands stay side-effect free.
	if !opts.noLogFile && !cmd.HasParent() {
		f, err := openLogFile(cfg)
		if err != nil {
			return err
		}
		c.logFile = f
		w = io.MultiWriter(c.Stderr, f)
	}

	c.Logger = newLogger(w, level).With("run", runID())
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close releases the log file opened for the run.
func (c *CLI) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// newCache opens the response cache selected by the config.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.DialRedis(ctx, c.cfg.Cache.RedisAddr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConnection, err, "redis cache at %s", c.cfg.Cache.RedisAddr)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("Response cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pydocscraper/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
