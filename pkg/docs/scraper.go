package docs

import (
	"context"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// Fetcher is the subset of [*httputil.Fetcher] the scraper needs.
type Fetcher interface {
	Document(ctx context.Context, url string) (*goquery.Document, error)
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Options configures a Scraper.
type Options struct {
	// DocsURL is the root of the documentation, e.g. https://docs.python.org/3/.
	DocsURL string

	// DownloadsDir receives archives saved by Download.
	DownloadsDir string

	Logger *log.Logger
}

// Scraper extracts data from the Python documentation site.
type Scraper struct {
	fetcher      Fetcher
	docs         *url.URL
	downloadsDir string
	logger       *log.Logger
}

// NewScraper validates opts and returns a Scraper.
func NewScraper(f Fetcher, opts Options) (*Scraper, error) {
	if err := errors.ValidateURL(opts.DocsURL); err != nil {
		return nil, err
	}
	docs, err := url.Parse(opts.DocsURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse docs URL")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scraper{
		fetcher:      f,
		docs:         docs,
		downloadsDir: opts.DownloadsDir,
		logger:       logger,
	}, nil
}

// resolve joins ref onto base the way a browser follows a link.
func resolve(base *url.URL, ref string) (*url.URL, error) {
	u, err := base.Parse(ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %q against %s", ref, base)
	}
	return u, nil
}
