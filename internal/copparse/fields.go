package copparse

import (
	"strings"

	"golang.org/x/net/html"
)

// extractFields walks the rows of the resolved table and returns the ordered
// label:value map plus the first dropbox and swift hrefs found in any row.
//
// Per row, only direct child cells take part in label:value pairing; cells
// belonging to tables nested inside the row are skipped. Links are collected
// recursively, since download anchors are often buried several wrappers
// deep.
func (p *Parser) extractFields(table *html.Node) (fields *FieldMap, dropboxURL, swiftURL string) {
	fields = NewFieldMap()

	for _, row := range tableRows(table) {
		// Link scan shares the row iteration with field pairing but is
		// independent of it: a row may contribute both.
		walk(row, func(n *html.Node) bool {
			if !isElement(n, "a") {
				return true
			}
			href := attrValue(n, "href")
			if href == "" {
				return true
			}
			switch {
			case dropboxURL == "" && strings.Contains(href, p.cfg.DropboxDomain):
				dropboxURL = href
			case swiftURL == "" && strings.Contains(href, p.cfg.SwiftDomain):
				swiftURL = href
			}
			return true
		})

		cells := directCells(row)
		for i := 0; i < len(cells); {
			cell := cells[i]
			text := nodeText(cell)

			isLabel := isElement(cell, "th") || strings.HasSuffix(text, ":")
			if !isLabel || i+1 >= len(cells) {
				i++
				continue
			}

			label := strings.TrimSpace(strings.TrimSuffix(text, ":"))
			if label == "" || p.isSectionHeader(label) {
				i++
				continue
			}

			// First occurrence wins: a repeated label in a later row keeps
			// the value that appeared earliest in document order.
			fields.Set(label, nodeText(cells[i+1]))
			i += 2
		}
	}

	return fields, dropboxURL, swiftURL
}

func (p *Parser) isSectionHeader(label string) bool {
	_, ok := p.cfg.SectionHeaders[strings.ToUpper(label)]
	return ok
}

// tableRows returns every tr under table in document order. Rows of nested
// tables are included, but pairing inside each row is restricted to its
// direct cells.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	walk(table, func(n *html.Node) bool {
		if isElement(n, "tr") {
			rows = append(rows, n)
		}
		return true
	})
	return rows
}
