package copparse

import (
	"strings"

	"golang.org/x/net/html"
)

// walk visits every node under root in document order (depth-first,
// left-to-right) using an explicit stack, so traversal depth is bounded
// regardless of how deeply the source nesting goes. visit returns false to
// stop the walk early.
func walk(root *html.Node, visit func(*html.Node) bool) {
	if root == nil {
		return
	}
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			return
		}
		// Push children in reverse so the first child is visited next.
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// isElement reports whether n is an element with one of the given tag names.
func isElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if strings.EqualFold(n.Data, t) {
			return true
		}
	}
	return false
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// collapse trims s and squeezes every whitespace run to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nodeText returns the whitespace-collapsed text content of n, including
// nested elements, with text segments joined by single spaces.
func nodeText(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
		return true
	})
	return collapse(strings.Join(parts, " "))
}

// blockTags are elements that start a new text line inside a cell. Nested
// tables and explicit breaks separate the visible header phrase from hidden
// hash strings and unrelated content packed into the same cell.
var blockTags = map[string]struct{}{
	"br": {}, "p": {}, "div": {}, "li": {},
	"table": {}, "tr": {}, "td": {}, "th": {},
}

// nodeLines returns the text content of n split into visual lines. A new
// line starts at each block-level element boundary; each line is
// whitespace-collapsed and empty lines are dropped.
func nodeLines(n *html.Node) []string {
	var lines []string
	var cur []string

	flush := func() {
		if line := collapse(strings.Join(cur, " ")); line != "" {
			lines = append(lines, line)
		}
		cur = cur[:0]
	}

	walk(n, func(c *html.Node) bool {
		if c != n && c.Type == html.ElementNode {
			if _, ok := blockTags[strings.ToLower(c.Data)]; ok {
				flush()
			}
		}
		if c.Type == html.TextNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				cur = append(cur, t)
			}
		}
		return true
	})
	flush()
	return lines
}

// directCells returns the th/td elements that are direct children of row.
// Cells inside tables nested within the row are deliberately excluded so a
// nested layout table cannot contaminate the outer row's label:value pairing.
func directCells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, "th", "td") {
			cells = append(cells, c)
		}
	}
	return cells
}
