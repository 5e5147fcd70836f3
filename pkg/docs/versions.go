package docs

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/pydocscraper/pkg/errors"
	"github.com/matzehuels/pydocscraper/pkg/htmlutil"
	"github.com/matzehuels/pydocscraper/pkg/output"
)

var versionPattern = regexp.MustCompile(`Python (?P<version>\d\.\d+) \((?P<status>.*)\)`)

// LatestVersions returns one (link, version, status) row per entry of the
// sidebar's "All versions" list.
func (s *Scraper) LatestVersions(ctx context.Context) (output.Table, error) {
	doc, err := s.fetcher.Document(ctx, s.docs.String())
	if err != nil {
		return nil, err
	}
	sidebar, err := htmlutil.FindRequired(doc.Selection, "div", htmlutil.Class("sphinxsidebarwrapper"))
	if err != nil {
		return nil, err
	}

	list := htmlutil.FindAll(sidebar, "ul").FilterFunction(func(_ int, ul *goquery.Selection) bool {
		return strings.Contains(htmlutil.Text(ul), "All versions")
	}).First()
	if list.Length() == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no version list in the sidebar of %s", s.docs)
	}

	results := output.NewTable("Documentation link", "Version", "Status")
	anchors := htmlutil.FindAll(list, "a")
	for i := 0; i < anchors.Length(); i++ {
		a := anchors.Eq(i)
		href, err := htmlutil.RequiredAttr(a, "href")
		if err != nil {
			return nil, err
		}
		link, err := resolve(s.docs, href)
		if err != nil {
			return nil, err
		}
		version, status := ParseVersion(htmlutil.Text(a))
		results.Append(link.String(), version, status)
	}
	return results, nil
}

// ParseVersion splits link text like "Python 3.13 (stable)" into version and
// status. Text that does not match is returned whole with an empty status.
func ParseVersion(text string) (version, status string) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	return m[versionPattern.SubexpIndex("version")], m[versionPattern.SubexpIndex("status")]
}
