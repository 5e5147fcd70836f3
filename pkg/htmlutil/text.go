package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text returns the concatenated text of every node in sel and its descendants.
func Text(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
}

// OwnText returns only the direct text children of n, ignoring nested elements.
// For <dt>Status<span>:</span></dt> it returns "Status".
func OwnText(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}

// FindByOwnText returns the first element under sel whose own text, with
// surrounding whitespace trimmed, equals text.
func FindByOwnText(sel *goquery.Selection, text string) *goquery.Selection {
	return sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(OwnText(s.Get(0))) == text
	}).First()
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// CollapseSpace trims s and folds every whitespace run into a single space.
func CollapseSpace(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
