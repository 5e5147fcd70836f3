// Package config loads pydocscraper settings from an optional TOML file.
//
// Every field has a built-in default, so a missing file is not an error:
//
//	cfg, err := config.Load("pydocscraper.toml")
//
// A file only needs the keys it overrides:
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[pep]
//	abort_on_fetch_error = true
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "pydocscraper.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete runtime configuration.
type Config struct {
	URLs  URLs        `toml:"urls"`
	Paths Paths       `toml:"paths"`
	Log   LogConfig   `toml:"log"`
	Cache CacheConfig `toml:"cache"`
	HTTP  HTTPConfig  `toml:"http"`
	PEP   PEPConfig   `toml:"pep"`
}

// URLs holds the scraped sites.
type URLs struct {
	Docs string `toml:"docs"`
	PEPs string `toml:"peps"`
}

// Paths holds output locations. Directory names are relative to Base.
type Paths struct {
	Base      string `toml:"base"`
	Downloads string `toml:"downloads"`
	Results   string `toml:"results"`
	Logs      string `toml:"logs"`
	LogFile   string `toml:"log_file"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level        string `toml:"level"`
	MaxMegabytes int    `toml:"max_megabytes"` // rotation threshold
	Backups      int    `toml:"backups"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"` // empty means the user cache dir
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

// HTTPConfig tunes the fetcher.
type HTTPConfig struct {
	Timeout   Duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"` // empty means the build default
}

// PEPConfig tunes the reconciler.
type PEPConfig struct {
	AbortOnFetchError bool `toml:"abort_on_fetch_error"`
}

// Duration is a time.Duration written as a Go duration string ("30s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		URLs: URLs{
			Docs: "https://docs.python.org/3/",
			PEPs: "https://peps.python.org/",
		},
		Paths: Paths{
			Base:      ".",
			Downloads: "downloads",
			Results:   "results",
			Logs:      "logs",
			LogFile:   "parser.log",
		},
		Log: LogConfig{
			Level:        "info",
			MaxMegabytes: 1,
			Backups:      5,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			TTL:       Duration{24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
		HTTP: HTTPConfig{
			Timeout: Duration{30 * time.Second},
		},
	}
}

// Load reads path over the defaults and validates the result.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	for name, u := range map[string]string{"urls.docs": c.URLs.Docs, "urls.peps": c.URLs.PEPs} {
		if err := errors.ValidateURL(u); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	if c.Paths.Base == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "paths.base cannot be empty")
	}
	dirs := []struct{ name, value string }{
		{"paths.downloads", c.Paths.Downloads},
		{"paths.results", c.Paths.Results},
		{"paths.logs", c.Paths.Logs},
		{"paths.log_file", c.Paths.LogFile},
	}
	for _, d := range dirs {
		if err := errors.ValidateDirName(d.value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", d.name)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "log.level must be debug, info, warn or error: %q", c.Log.Level)
	}
	if c.Log.MaxMegabytes <= 0 || c.Log.Backups < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "log.max_megabytes must be positive and log.backups non-negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	if err := c.validateCacheDir(); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	if c.HTTP.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http.timeout must be positive")
	}
	return nil
}

// validateCacheDir rejects a file cache directory that would hold the
// scraper's own output.
func (c Config) validateCacheDir() error {
	if c.Cache.Backend != CacheFile || c.Cache.Dir == "" {
		return nil
	}
	cacheDir, err := filepath.Abs(c.Cache.Dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.dir")
	}
	owned := []struct{ name, path string }{
		{"paths.base", c.Paths.Base},
		{"paths.results", c.ResultsDir()},
		{"paths.downloads", c.DownloadsDir()},
		{"paths.logs", c.LogsDir()},
	}
	for _, o := range owned {
		dir, err := filepath.Abs(o.path)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(cacheDir, dir)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.dir %q overlaps %s", c.Cache.Dir, o.name)
		}
	}
	return nil
}

// DownloadsDir is where download mode writes archives.
func (c Config) DownloadsDir() string { return filepath.Join(c.Paths.Base, c.Paths.Downloads) }

// ResultsDir is where CSV results are written.
func (c Config) ResultsDir() string { return filepath.Join(c.Paths.Base, c.Paths.Results) }

// LogsDir holds the rotating log file.
func (c Config) LogsDir() string { return filepath.Join(c.Paths.Base, c.Paths.Logs) }

// LogPath is the full path of the log file.
func (c Config) LogPath() string { return filepath.Join(c.LogsDir(), c.Paths.LogFile) }
