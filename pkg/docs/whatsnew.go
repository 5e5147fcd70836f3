package docs

import (
	"context"
	"strings"

	"github.com/matzehuels/pydocscraper/pkg/htmlutil"
	"github.com/matzehuels/pydocscraper/pkg/httputil"
	"github.com/matzehuels/pydocscraper/pkg/observability"
	"github.com/matzehuels/pydocscraper/pkg/output"
)

// WhatsNew returns one (link, title, editor) row per release article.
// Articles that cannot be fetched are skipped with a warning.
func (s *Scraper) WhatsNew(ctx context.Context) (output.Table, error) {
	index, err := resolve(s.docs, "whatsnew/")
	if err != nil {
		return nil, err
	}
	doc, err := s.fetcher.Document(ctx, index.String())
	if err != nil {
		return nil, err
	}

	section, err := htmlutil.FindRequired(doc.Selection, "section", htmlutil.ID("what-s-new-in-python"))
	if err != nil {
		return nil, err
	}
	wrapper, err := htmlutil.FindRequired(section, "div", htmlutil.Class("toctree-wrapper"))
	if err != nil {
		return nil, err
	}
	items := htmlutil.FindAll(wrapper, "li", htmlutil.Class("toctree-l1"))

	hooks := observability.Crawl()
	hooks.OnTableStart(ctx, 0, items.Length())

	results := output.NewTable("Article link", "Title", "Editor, author")
	for i := 0; i < items.Length(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		anchor, err := htmlutil.FindRequired(items.Eq(i), "a")
		if err != nil {
			return nil, err
		}
		href, err := htmlutil.RequiredAttr(anchor, "href")
		if err != nil {
			return nil, err
		}
		link, err := resolve(index, href)
		if err != nil {
			return nil, err
		}

		article, err := s.fetcher.Document(ctx, link.String())
		if err != nil {
			if !httputil.IsFetchError(err) {
				return nil, err
			}
			s.logger.Warn("Skipping article", "url", link, "err", err)
			hooks.OnRowDone(ctx, link.String(), observability.OutcomeFetchFailed)
			continue
		}
		h1, err := htmlutil.FindRequired(article.Selection, "h1")
		if err != nil {
			return nil, err
		}
		dl, err := htmlutil.FindRequired(article.Selection, "dl")
		if err != nil {
			return nil, err
		}

		results.Append(
			link.String(),
			strings.TrimSpace(htmlutil.Text(h1)),
			strings.TrimSpace(strings.ReplaceAll(htmlutil.Text(dl), "\n", " ")),
		)
		hooks.OnRowDone(ctx, link.String(), observability.OutcomeScraped)
	}
	return results, nil
}
