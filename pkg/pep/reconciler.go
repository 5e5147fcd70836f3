package pep

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pydocscraper/pkg/errors"
	"github.com/matzehuels/pydocscraper/pkg/htmlutil"
	"github.com/matzehuels/pydocscraper/pkg/httputil"
	"github.com/matzehuels/pydocscraper/pkg/observability"
)

const statusLabel = "Status"

var (
	indexTable = htmlutil.Class("pep-zero-table")
	pepLink    = htmlutil.Class("pep reference internal")
)

// DocumentFetcher fetches and parses a page. [*httputil.Fetcher] satisfies it.
type DocumentFetcher interface {
	Document(ctx context.Context, url string) (*goquery.Document, error)
}

// Options configures a Reconciler.
type Options struct {
	// IndexURL is the PEP index page; row links are resolved against it.
	IndexURL string

	// AbortOnFetchError makes a failed PEP page fetch end the pass instead
	// of being recorded as a FetchFailure.
	AbortOnFetchError bool

	Logger *log.Logger
}

// Reconciler walks the PEP index and checks every row against its page.
type Reconciler struct {
	fetcher           DocumentFetcher
	index             *url.URL
	abortOnFetchError bool
	logger            *log.Logger
}

// NewReconciler validates opts and returns a Reconciler.
func NewReconciler(f DocumentFetcher, opts Options) (*Reconciler, error) {
	if err := errors.ValidateURL(opts.IndexURL); err != nil {
		return nil, err
	}
	index, err := url.Parse(opts.IndexURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse index URL")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{
		fetcher:           f,
		index:             index,
		abortOnFetchError: opts.AbortOnFetchError,
		logger:            logger,
	}, nil
}

// Run performs a full pass over every index table.
//
// Tables and rows are visited in document order. On error the report is
// still returned and holds every row recorded before the failing one.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	report := NewReport()

	doc, err := r.fetcher.Document(ctx, r.index.String())
	if err != nil {
		return report, err
	}

	tables := htmlutil.FindAll(doc.Selection, "table", indexTable)
	r.logger.Debug("Index parsed", "tables", tables.Length())

	hooks := observability.Crawl()
	for i := 0; i < tables.Length(); i++ {
		tbody, err := htmlutil.FindRequired(tables.Eq(i), "tbody")
		if err != nil {
			return report, fmt.Errorf("table %d: %w", i+1, err)
		}
		rows := htmlutil.FindAll(tbody, "tr")
		hooks.OnTableStart(ctx, i, rows.Length())

		for j := 0; j < rows.Length(); j++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			out, err := r.ClassifyRow(ctx, rows.Eq(j))
			if err != nil {
				return report, fmt.Errorf("table %d row %d: %w", i+1, j+1, err)
			}
			report.Record(out)
			hooks.OnRowDone(ctx, out.Row.Subject, out.Kind())
		}
	}
	return report, nil
}

// ClassifyRow handles one index row: it reads the link and abbreviation,
// fetches the PEP page and classifies the status found there. It does not
// modify any shared state.
func (r *Reconciler) ClassifyRow(ctx context.Context, sel *goquery.Selection) (Outcome, error) {
	row, err := r.ParseRow(sel)
	if err != nil {
		return Outcome{}, err
	}

	status, err := r.FetchStatus(ctx, row.URL)
	if err != nil {
		if httputil.IsFetchError(err) && !r.abortOnFetchError {
			return Outcome{Row: row, FetchErr: err}, nil
		}
		return Outcome{Row: row}, err
	}
	return Classify(row, status), nil
}

// ParseRow extracts the PEP link and status abbreviation from an index row.
func (r *Reconciler) ParseRow(sel *goquery.Selection) (Row, error) {
	anchor, err := htmlutil.FindRequired(sel, "a", pepLink)
	if err != nil {
		return Row{}, err
	}
	href, err := htmlutil.RequiredAttr(anchor, "href")
	if err != nil {
		return Row{}, err
	}
	link, err := r.index.Parse(href)
	if err != nil {
		return Row{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve PEP link %q", href)
	}

	row := Row{
		Subject: htmlutil.CollapseSpace(htmlutil.Text(anchor)),
		URL:     link.String(),
	}

	abbr := htmlutil.FindAll(sel, "abbr").First()
	if abbr.Length() == 0 {
		row.Abbrev = AbbrevNone
		return row, nil
	}
	row.HasPreview = true
	row.Abbrev, err = ParseAbbrev(statusCode(htmlutil.Text(abbr)))
	if err != nil {
		return row, fmt.Errorf("PEP %s: %w", row.Subject, err)
	}
	return row, nil
}

// statusCode drops the leading type letter from an index marker like "SF".
func statusCode(marker string) string {
	marker = strings.TrimSpace(marker)
	_, size := utf8.DecodeRuneInString(marker)
	return marker[size:]
}

// FetchStatus fetches a PEP page and returns the value of its Status field.
func (r *Reconciler) FetchStatus(ctx context.Context, pageURL string) (string, error) {
	doc, err := r.fetcher.Document(ctx, pageURL)
	if err != nil {
		return "", err
	}
	dl, err := htmlutil.FindRequired(doc.Selection, "dl")
	if err != nil {
		return "", err
	}
	label := htmlutil.FindByOwnText(dl, statusLabel)
	if label.Length() == 0 {
		return "", &errors.TagNotFoundError{Tag: "dt", Filter: fmt.Sprintf("[text=%q]", statusLabel)}
	}
	value := label.Next()
	if value.Length() == 0 {
		return "", &errors.TagNotFoundError{Tag: "dd", Filter: fmt.Sprintf("after %q", statusLabel)}
	}
	return htmlutil.CollapseSpace(htmlutil.Text(value)), nil
}
