package parser

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// blockElements separate paragraphs in the flattened text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "pre": true, "tr": true, "br": true,
}

// extractVisibleText strips markup from an HTML fragment and returns the
// visible text with whitespace collapsed, paragraphs separated by blank
// lines. Script and style contents are dropped entirely.
func extractVisibleText(htmlSrc string) string {
	root, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return ""
	}

	var paragraphs []string
	var current strings.Builder

	flush := func() {
		text := collapseWhitespace(current.String())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			current.WriteString(n.Data)
			current.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			flush()
		}
	}
	walk(root)
	flush()

	return strings.Join(paragraphs, "\n\n")
}

type anchor struct {
	href  string
	label string
}

// extractAnchors returns every <a href> element and its visible label,
// in document order.
func extractAnchors(htmlSrc string) []anchor {
	root, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return nil
	}

	var anchors []anchor
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
					break
				}
			}
			if href != "" {
				anchors = append(anchors, anchor{
					href:  href,
					label: collapseWhitespace(nodeText(n)),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return anchors
}

// nodeText concatenates all text nodes beneath n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseWhitespace reduces all whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// htmlToMarkdown converts an HTML fragment (commonly found in EPUB
// metadata descriptions) to Markdown. Falls back to stripped plain text
// when conversion fails.
func htmlToMarkdown(htmlSrc string) string {
	if !strings.Contains(htmlSrc, "<") {
		return strings.TrimSpace(htmlSrc)
	}
	md, err := htmltomarkdown.ConvertString(htmlSrc)
	if err != nil {
		return collapseWhitespace(extractVisibleText(htmlSrc))
	}
	return strings.TrimSpace(md)
}
