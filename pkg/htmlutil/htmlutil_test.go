package htmlutil

import (
	stderrors "errors"
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pydocscraper/pkg/errors"
)

const page = `<html><body>
<section id="what-s-new-in-python">
  <div class="toctree-wrapper compound">
    <ul>
      <li class="toctree-l1"><a href="3.13.html">What's New In Python 3.13</a></li>
      <li class="toctree-l1"><a href="3.12.html">What's New In Python 3.12</a></li>
    </ul>
  </div>
</section>
<table class="docutils align-default">
  <tr><td><a href="archives/python-docs-pdf-letter.zip">Download</a></td></tr>
  <tr><td><a href="archives/python-docs-pdf-a4.zip">Download</a></td></tr>
</table>
<dl><dt>Status<span class="colon">:</span></dt><dd><abbr title="x">Final</abbr></dd></dl>
</body></html>`

func mustParse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestFindRequired_FirstMatch(t *testing.T) {
	doc := mustParse(t, page)

	li, err := FindRequired(doc.Selection, "li", Class("toctree-l1"))
	require.NoError(t, err)
	require.Equal(t, 1, li.Length())
	require.Equal(t, "What's New In Python 3.13", Text(li))
}

func TestFindRequired_ClassToken(t *testing.T) {
	doc := mustParse(t, page)

	_, err := FindRequired(doc.Selection, "div", Class("toctree-wrapper"))
	require.NoError(t, err)

	_, err = FindRequired(doc.Selection, "table", Class("docutils align-default"))
	require.NoError(t, err, "full attribute value should match too")
}

func TestFindRequired_Pattern(t *testing.T) {
	doc := mustParse(t, page)
	table, err := FindRequired(doc.Selection, "table", Class("docutils"))
	require.NoError(t, err)

	a, err := FindRequired(table, "a", Match("href", regexp.MustCompile(`.+pdf-a4\.zip$`)))
	require.NoError(t, err)

	href, err := RequiredAttr(a, "href")
	require.NoError(t, err)
	require.Equal(t, "archives/python-docs-pdf-a4.zip", href)
}

func TestFindRequired_Missing(t *testing.T) {
	doc := mustParse(t, page)

	sel, err := FindRequired(doc.Selection, "a", Class("pep reference internal"))
	require.Nil(t, sel)
	require.Error(t, err)

	var tnf *errors.TagNotFoundError
	require.True(t, stderrors.As(err, &tnf))
	require.Equal(t, "a", tnf.Tag)
	require.Equal(t, `[class="pep reference internal"]`, tnf.Filter)
	require.True(t, errors.Is(err, errors.ErrCodeTagNotFound))
}

func TestFindRequired_ScopedToSelection(t *testing.T) {
	doc := mustParse(t, page)
	section, err := FindRequired(doc.Selection, "section", ID("what-s-new-in-python"))
	require.NoError(t, err)

	_, err = FindRequired(section, "table")
	require.Error(t, err, "search must not escape the given subtree")
}

func TestFindAll(t *testing.T) {
	doc := mustParse(t, page)

	require.Equal(t, 2, FindAll(doc.Selection, "li", Class("toctree-l1")).Length())
	require.Equal(t, 0, FindAll(doc.Selection, "li", Class("toctree-l2")).Length())
	require.Equal(t, 4, FindAll(doc.Selection, "a").Length())
}

func TestRequiredAttr_Missing(t *testing.T) {
	doc := mustParse(t, page)
	li, err := FindRequired(doc.Selection, "li")
	require.NoError(t, err)

	_, err = RequiredAttr(li, "href")
	require.True(t, errors.Is(err, errors.ErrCodeAttributeNotFound))
}

func TestFindByOwnText(t *testing.T) {
	doc := mustParse(t, page)
	dl, err := FindRequired(doc.Selection, "dl")
	require.NoError(t, err)

	label := FindByOwnText(dl, "Status")
	require.Equal(t, 1, label.Length())
	require.Equal(t, "dt", goquery.NodeName(label))
	require.Equal(t, "Final", strings.TrimSpace(Text(label.Next())))

	require.Equal(t, 0, FindByOwnText(dl, "Type").Length())
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Python 3.13  ", "Python 3.13"},
		{"Editor:\n  Adam Turner\n", "Editor: Adam Turner"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CollapseSpace(tt.in))
	}
}
