package copparse

import (
	"regexp"

	"golang.org/x/net/html"
)

// zeroFontStyle matches inline styles that render text at zero or near-zero
// size: font-size values of 0, 0px, 0pt, 0%, or 1pt. Some report templates
// hide tracking hashes in such spans; their text must never leak into
// extracted labels or values.
var zeroFontStyle = regexp.MustCompile(`(?i)font-size\s*:\s*(?:0(?:\.0+)?\s*(?:px|pt|%)?|1\s*pt)\s*(?:;|!|$)`)

// normalize removes invisible styling spans from the tree. The pass first
// collects the doomed nodes, then unlinks them, so removal never interferes
// with the traversal order.
func normalize(doc *html.Node) {
	var hidden []*html.Node
	walk(doc, func(n *html.Node) bool {
		if isElement(n, "span") && zeroFontStyle.MatchString(attrValue(n, "style")) {
			hidden = append(hidden, n)
		}
		return true
	})
	for _, n := range hidden {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}
