package docs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pydocscraper/pkg/errors"
)

const docsURL = "https://docs.python.org/3/"

type fakeFetcher struct {
	pages map[string]string
	files map[string][]byte
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{}, files: map[string][]byte{}}
}

func (f *fakeFetcher) Document(_ context.Context, url string) (*goquery.Document, error) {
	body, ok := f.pages[url]
	if !ok {
		return nil, errors.New(errors.ErrCodeHTTPStatus, "GET %s: 404 Not Found", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func (f *fakeFetcher) Download(_ context.Context, url string, w io.Writer) (int64, error) {
	data, ok := f.files[url]
	if !ok {
		return 0, errors.New(errors.ErrCodeConnection, "GET %s: connection reset", url)
	}
	n, err := w.Write(data)
	return int64(n), err
}

func newTestScraper(t *testing.T, f Fetcher, dir string) (*Scraper, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s, err := NewScraper(f, Options{DocsURL: docsURL, DownloadsDir: dir, Logger: log.New(&buf)})
	require.NoError(t, err)
	return s, &buf
}

const whatsNewIndex = `<html><body>
<section id="what-s-new-in-python"><h1>What's New in Python</h1>
<div class="toctree-wrapper compound"><ul>
<li class="toctree-l1"><a class="reference internal" href="3.13.html">What's New In Python 3.13</a>
  <ul><li class="toctree-l2"><a href="3.13.html#summary">Summary</a></li></ul></li>
<li class="toctree-l1"><a class="reference internal" href="3.12.html">What's New In Python 3.12</a></li>
<li class="toctree-l1"><a class="reference internal" href="3.11.html">What's New In Python 3.11</a></li>
</ul></div></section></body></html>`

func article(title, editor string) string {
	return `<html><body><section><h1>` + title + `<a class="headerlink" href="#">¶</a></h1>
<dl class="field-list simple">
<dt class="field-odd">Editor<span class="colon">:</span></dt>
<dd class="field-odd"><p>` + editor + `</p>
</dd>
</dl></section></body></html>`
}

func TestWhatsNew(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL+"whatsnew/"] = whatsNewIndex
	f.pages[docsURL+"whatsnew/3.13.html"] = article("What’s New In Python 3.13", "Adam Turner and Thomas Wouters")
	f.pages[docsURL+"whatsnew/3.11.html"] = article("What’s New In Python 3.11", "Pablo Galindo Salgado")

	s, buf := newTestScraper(t, f, t.TempDir())
	tbl, err := s.WhatsNew(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"Article link", "Title", "Editor, author"}, tbl.Header())
	body := tbl.Body()
	require.Len(t, body, 2)
	require.Equal(t, docsURL+"whatsnew/3.13.html", body[0][0])
	require.Equal(t, "What’s New In Python 3.13¶", body[0][1])
	require.Equal(t, "Editor: Adam Turner and Thomas Wouters", body[0][2])
	require.Equal(t, docsURL+"whatsnew/3.11.html", body[1][0])

	require.Contains(t, buf.String(), "Skipping article")
	require.Contains(t, buf.String(), "3.12.html")
}

func TestWhatsNewMissingSection(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL+"whatsnew/"] = `<html><body><section id="other"></section></body></html>`

	s, _ := newTestScraper(t, f, t.TempDir())
	_, err := s.WhatsNew(context.Background())
	require.True(t, errors.Is(err, errors.ErrCodeTagNotFound))
	require.Contains(t, err.Error(), "what-s-new-in-python")
}

func TestWhatsNewArticleWithoutTitle(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL+"whatsnew/"] = whatsNewIndex
	f.pages[docsURL+"whatsnew/3.13.html"] = `<html><body><dl><dt>Editor</dt></dl></body></html>`

	s, _ := newTestScraper(t, f, t.TempDir())
	_, err := s.WhatsNew(context.Background())
	require.True(t, errors.Is(err, errors.ErrCodeTagNotFound))
}

const sidebar = `<html><body><div class="sphinxsidebar"><div class="sphinxsidebarwrapper">
<h3>Navigation</h3><ul><li><a href="index.html">Index</a></li></ul>
<h3>Docs by version</h3><ul>
<li><a href="https://docs.python.org/3.14/">Python 3.14 (in development)</a></li>
<li><a href="https://docs.python.org/3.13/">Python 3.13 (stable)</a></li>
<li><a href="https://docs.python.org/3.8/">Python 3.8 (security-fixes)</a></li>
<li><a href="https://www.python.org/doc/versions/">All versions</a></li>
</ul></div></div></body></html>`

func TestLatestVersions(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL] = sidebar

	s, _ := newTestScraper(t, f, t.TempDir())
	tbl, err := s.LatestVersions(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"Documentation link", "Version", "Status"}, tbl.Header())
	require.Equal(t, [][]string{
		{"https://docs.python.org/3.14/", "3.14", "in development"},
		{"https://docs.python.org/3.13/", "3.13", "stable"},
		{"https://docs.python.org/3.8/", "3.8", "security-fixes"},
		{"https://www.python.org/doc/versions/", "All versions", ""},
	}, tbl.Body())
}

func TestLatestVersionsNoList(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL] = `<html><body><div class="sphinxsidebarwrapper"><ul><li>Index</li></ul></div></body></html>`

	s, _ := newTestScraper(t, f, t.TempDir())
	_, err := s.LatestVersions(context.Background())
	require.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		text, version, status string
	}{
		{"Python 3.13 (stable)", "3.13", "stable"},
		{"Python 2.7 (EOL)", "2.7", "EOL"},
		{"Python 3.10 (security-fixes)", "3.10", "security-fixes"},
		{"All versions", "All versions", ""},
		{"Python 3 (stable)", "Python 3 (stable)", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			version, status := ParseVersion(tt.text)
			require.Equal(t, tt.version, version)
			require.Equal(t, tt.status, status)
		})
	}
}

const downloadPage = `<html><body><table class="docutils align-default"><tbody>
<tr><td>PDF (US-Letter paper size)</td><td><a class="reference external" href="archives/python-3.13-docs-pdf-letter.zip">Download</a></td></tr>
<tr><td>PDF (A4 paper size)</td><td><a class="reference external" href="archives/python-3.13-docs-pdf-a4.zip">Download</a></td></tr>
</tbody></table></body></html>`

func TestDownload(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL+"download.html"] = downloadPage
	f.files[docsURL+"archives/python-3.13-docs-pdf-a4.zip"] = []byte("PK\x03\x04zip")

	dir := filepath.Join(t.TempDir(), "downloads")
	s, buf := newTestScraper(t, f, dir)
	path, err := s.Download(context.Background())
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "python-3.13-docs-pdf-a4.zip"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("PK\x03\x04zip"), data)
	require.Contains(t, buf.String(), path)
}

func TestDownloadNoArchiveLink(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL+"download.html"] = `<html><body><table class="docutils"><tr><td><a href="x.tar.bz2">x</a></td></tr></table></body></html>`

	s, _ := newTestScraper(t, f, t.TempDir())
	_, err := s.Download(context.Background())
	require.True(t, errors.Is(err, errors.ErrCodeTagNotFound))
}

func TestDownloadFailureRemovesPartialFile(t *testing.T) {
	f := newFakeFetcher()
	f.pages[docsURL+"download.html"] = downloadPage

	dir := t.TempDir()
	s, _ := newTestScraper(t, f, dir)
	_, err := s.Download(context.Background())
	require.True(t, errors.Is(err, errors.ErrCodeConnection))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestNewScraperRejectsBadURL(t *testing.T) {
	_, err := NewScraper(newFakeFetcher(), Options{DocsURL: "docs.python.org"})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
