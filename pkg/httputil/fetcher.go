package httputil

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/matzehuels/pydocscraper/pkg/buildinfo"
	"github.com/matzehuels/pydocscraper/pkg/cache"
	"github.com/matzehuels/pydocscraper/pkg/errors"
	"github.com/matzehuels/pydocscraper/pkg/htmlutil"
	"github.com/matzehuels/pydocscraper/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	cacheNamespace = "page"
)

// Options configures a [Fetcher]. Zero values select defaults.
type Options struct {
	Timeout   time.Duration // per-request timeout, DefaultTimeout if zero
	UserAgent string        // buildinfo.UserAgent() if empty
	TTL       time.Duration // cache entry lifetime, 0 = never expire
	Logger    *log.Logger   // log.Default() if nil
}

// Fetcher performs single-attempt GET requests with transparent caching.
// A Fetcher is not tied to a goroutine but the scraper uses it sequentially.
type Fetcher struct {
	http   *resty.Client
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewFetcher creates a Fetcher backed by c. Pass cache.NewNullCache() to
// disable caching.
func NewFetcher(c cache.Cache, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = buildinfo.UserAgent()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetRetryCount(0)

	return &Fetcher{
		http:   client,
		cache:  c,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}
}

// Get returns the UTF-8 body of rawURL.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	key := cache.HTTPKey(cacheNamespace, rawURL)
	if data, ok, err := f.cache.Get(ctx, key); err != nil {
		f.logger.Debug("cache read failed", "url", rawURL, "err", err)
	} else if ok {
		observability.Cache().OnCacheHit(ctx, cacheNamespace)
		f.logger.Debug("GET (cached)", "url", rawURL)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheNamespace)

	resp, err := f.do(ctx, rawURL, false)
	if err != nil {
		return nil, err
	}

	body := bytes.ToValidUTF8(resp.Body(), []byte("\uFFFD"))
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyResponse, "empty response from %s", rawURL)
	}

	if err := f.cache.Set(ctx, key, body, f.ttl); err != nil {
		f.logger.Debug("cache write failed", "url", rawURL, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheNamespace, len(body))
	}
	return body, nil
}

// Document fetches rawURL and parses it as HTML.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := htmlutil.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s", rawURL)
	}
	return doc, nil
}

// Download streams the body of rawURL into w and returns the byte count.
// Downloads bypass the cache.
func (f *Fetcher) Download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	resp, err := f.do(ctx, rawURL, true)
	if err != nil {
		return 0, err
	}
	body := resp.RawBody()
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, errors.Wrap(errors.ErrCodeConnection, err, "read body of %s", rawURL)
	}
	if n == 0 {
		return 0, errors.New(errors.ErrCodeEmptyResponse, "empty response from %s", rawURL)
	}
	return n, nil
}

func (f *Fetcher) do(ctx context.Context, rawURL string, stream bool) (*resty.Response, error) {
	host, path := splitURL(rawURL)
	observability.HTTP().OnRequest(ctx, "GET", host, path)
	start := time.Now()

	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(stream).
		Get(rawURL)
	if err != nil {
		observability.HTTP().OnError(ctx, "GET", host, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "GET %s", rawURL)
	}
	observability.HTTP().OnResponse(ctx, "GET", host, path, resp.StatusCode(), time.Since(start))

	if !resp.IsSuccess() {
		if stream {
			_ = resp.RawBody().Close()
		}
		return nil, errors.New(errors.ErrCodeHTTPStatus, "GET %s: %s", rawURL, resp.Status())
	}
	return resp, nil
}

// IsFetchError reports whether err is a connection, empty-response or
// HTTP-status failure.
func IsFetchError(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeConnection, errors.ErrCodeEmptyResponse, errors.ErrCodeHTTPStatus:
		return true
	}
	return false
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
