package htmlutil

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/matzehuels/pydocscraper/pkg/errors"
)

// Attr is a single attribute constraint. Exactly one of Value or Pattern
// is used: a non-nil Pattern selects regexp matching.
type Attr struct {
	Key     string
	Value   string
	Pattern *regexp.Regexp
}

// Exact matches an attribute whose value equals value.
func Exact(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Class matches elements carrying the given class.
func Class(name string) Attr {
	return Attr{Key: "class", Value: name}
}

// ID matches the element with the given id.
func ID(id string) Attr {
	return Attr{Key: "id", Value: id}
}

// Match matches an attribute whose value matches pattern.
func Match(key string, pattern *regexp.Regexp) Attr {
	return Attr{Key: key, Pattern: pattern}
}

func (a Attr) String() string {
	if a.Pattern != nil {
		return fmt.Sprintf("[%s~=/%s/]", a.Key, a.Pattern)
	}
	return fmt.Sprintf("[%s=%q]", a.Key, a.Value)
}

func (a Attr) matches(n *html.Node) bool {
	val, ok := attrValue(n, a.Key)
	if !ok {
		return false
	}
	if a.Pattern != nil {
		return a.Pattern.MatchString(val)
	}
	if val == a.Value {
		return true
	}
	if a.Key == "class" {
		for _, token := range strings.Fields(val) {
			if token == a.Value {
				return true
			}
		}
	}
	return false
}

// Parse reads an HTML document. The input is expected to be UTF-8.
func Parse(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// FindAll returns every descendant of sel named tag that satisfies all
// attribute filters, in document order.
func FindAll(sel *goquery.Selection, tag string, attrs ...Attr) *goquery.Selection {
	return sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		for _, a := range attrs {
			if !a.matches(n) {
				return false
			}
		}
		return true
	})
}

// FindRequired returns the first descendant of sel named tag that satisfies
// all attribute filters. The search is depth-first in document order.
func FindRequired(sel *goquery.Selection, tag string, attrs ...Attr) (*goquery.Selection, error) {
	found := FindAll(sel, tag, attrs...).First()
	if found.Length() == 0 {
		return nil, &errors.TagNotFoundError{Tag: tag, Filter: describe(attrs)}
	}
	return found, nil
}

// RequiredAttr returns the value of key on the first node of sel.
func RequiredAttr(sel *goquery.Selection, key string) (string, error) {
	if sel.Length() > 0 {
		if val, ok := attrValue(sel.Get(0), key); ok {
			return val, nil
		}
	}
	return "", errors.New(errors.ErrCodeAttributeNotFound, "attribute %q not found on <%s>", key, goquery.NodeName(sel))
}

func attrValue(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func describe(attrs []Attr) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, "")
}
