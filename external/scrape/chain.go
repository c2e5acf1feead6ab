// Package scrape holds the extraction pieces shared by the markup sources:
// ordered selector strategies and the line-oriented text fallback.
package scrape

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
	"golang.org/x/net/html"
)

// Strategy is one way of reading fixtures out of a document.
type Strategy struct {
	Name    string
	Extract func(doc *goquery.Document) []fixture.RawFixture
}

// Chain runs strategies in order and returns the first non-empty result
// together with the name of the strategy that produced it.
func Chain(doc *goquery.Document, strategies ...Strategy) ([]fixture.RawFixture, string) {
	if doc == nil {
		return nil, ""
	}
	for _, strategy := range strategies {
		if strategy.Extract == nil {
			continue
		}
		if out := strategy.Extract(doc); len(out) > 0 {
			return out, strategy.Name
		}
	}
	return nil, ""
}

// Parse loads markup into a goquery document.
func Parse(content []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(content))
}

// ParseReader is Parse for streaming input.
func ParseReader(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// FirstText returns the normalized text of the first selector that yields any.
func FirstText(sel *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := textnorm.NormalizeText(sel.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

var blockElements = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "footer": {}, "h1": {}, "h2": {},
	"h3": {}, "h4": {}, "h5": {}, "h6": {}, "header": {}, "hr": {}, "li": {},
	"main": {}, "nav": {}, "ol": {}, "p": {}, "section": {}, "table": {},
	"tbody": {}, "thead": {}, "tr": {}, "ul": {},
}

// TextLines renders the body as text, breaking at block elements, and
// returns the normalized non-empty lines in document order.
func TextLines(doc *goquery.Document) []string {
	if doc == nil {
		return nil
	}
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var b strings.Builder
	for _, node := range root.Nodes {
		writeText(&b, node)
	}

	raw := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = textnorm.NormalizeText(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}

	_, block := blockElements[n.Data]
	if n.Type == html.ElementNode && block {
		b.WriteByte('\n')
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeText(b, child)
	}
	if n.Type == html.ElementNode && block {
		b.WriteByte('\n')
	}
}
