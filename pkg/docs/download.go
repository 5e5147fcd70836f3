package docs

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/matzehuels/pydocscraper/pkg/errors"
	"github.com/matzehuels/pydocscraper/pkg/htmlutil"
)

var pdfA4Archive = htmlutil.Match("href", regexp.MustCompile(`.+pdf-a4\.zip$`))

// Download saves the A4 PDF archive into the downloads directory and
// returns the path written.
func (s *Scraper) Download(ctx context.Context) (string, error) {
	page, err := resolve(s.docs, "download.html")
	if err != nil {
		return "", err
	}
	doc, err := s.fetcher.Document(ctx, page.String())
	if err != nil {
		return "", err
	}
	table, err := htmlutil.FindRequired(doc.Selection, "table", htmlutil.Class("docutils"))
	if err != nil {
		return "", err
	}
	anchor, err := htmlutil.FindRequired(table, "a", pdfA4Archive)
	if err != nil {
		return "", err
	}
	href, err := htmlutil.RequiredAttr(anchor, "href")
	if err != nil {
		return "", err
	}
	archive, err := resolve(page, href)
	if err != nil {
		return "", err
	}

	filename := path.Base(archive.Path)
	if err := errors.ValidateFilename(filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.downloadsDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", s.downloadsDir)
	}
	dest := filepath.Join(s.downloadsDir, filename)

	f, err := os.Create(dest)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFilesystem, err, "create %s", dest)
	}
	n, err := s.fetcher.Download(ctx, archive.String(), f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(errors.ErrCodeFilesystem, cerr, "write %s", dest)
	}
	if err != nil {
		os.Remove(dest)
		return "", err
	}

	s.logger.Info("Archive downloaded and saved", "path", dest, "bytes", n)
	return dest, nil
}
