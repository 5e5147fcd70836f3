// Package htmlutil parses fetched pages and looks up required elements.
//
// Lookups come in two flavours. [FindAll] is the lenient form used when an
// empty result is a valid answer (a table with no rows). [FindRequired] is
// the fail-fast form used for elements whose absence means the page is not
// the page we expected: it never returns an empty selection and reports a
// [*errors.TagNotFoundError] carrying the tag and the filter instead.
//
// Attribute filters mirror what the pages actually need:
//
//	htmlutil.FindRequired(doc.Selection, "div", htmlutil.Class("toctree-wrapper"))
//	htmlutil.FindRequired(table, "a", htmlutil.Match("href", archiveRe))
//
// A class filter matches either the full class attribute or any single class
// token, so Class("docutils") matches class="docutils align-default".
package htmlutil
