package copparse

import (
	"strings"

	"golang.org/x/net/html"
)

// Parse failure reasons. Every failure still yields a complete, storable
// Result; the reasons are data, not errors, so a bad body never aborts a
// batch.
const (
	ErrEmptyBody         = "empty body"
	ErrHeaderNotFound    = "no package header found"
	ErrTableNotFound     = "could not find package table"
	ErrNoFieldsExtracted = "table found but no label:value pairs extracted"
)

// Result is the outcome of parsing one email body. Either Fields is
// populated and ParseError is empty, or ParseError names the failure and
// Fields is empty. PackageType is preserved on partial failures where the
// header was classified before the failing stage.
type Result struct {
	PackageType string    `json:"package_type,omitempty"`
	Fields      *FieldMap `json:"fields,omitempty"`
	DropboxURL  string    `json:"dropbox_url,omitempty"`
	SwiftURL    string    `json:"swift_url,omitempty"`
	ParseError  string    `json:"parse_error,omitempty"`
}

// OK reports whether the body parsed successfully.
func (r Result) OK() bool {
	return r.ParseError == ""
}

// Parse extracts the first close-out package report from an email HTML body.
// It is a pure function of body: safe for concurrent use and idempotent.
func (p *Parser) Parse(body string) Result {
	if body == "" {
		return Result{ParseError: ErrEmptyBody}
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		// html.Parse only fails on reader errors, which cannot happen for a
		// string reader, but a nil tree must not reach the traversal below.
		return Result{ParseError: ErrHeaderNotFound}
	}

	normalize(doc)

	headerCell, pattern := p.locateHeader(doc)
	if headerCell == nil {
		return Result{ParseError: ErrHeaderNotFound}
	}

	packageType := p.classify(headerLine(headerCell, pattern))

	table := resolveTable(headerCell)
	if table == nil {
		return Result{PackageType: packageType, ParseError: ErrTableNotFound}
	}

	fields, dropboxURL, swiftURL := p.extractFields(table)
	if fields.Len() == 0 {
		return Result{PackageType: packageType, ParseError: ErrNoFieldsExtracted}
	}

	return Result{
		PackageType: packageType,
		Fields:      fields,
		DropboxURL:  dropboxURL,
		SwiftURL:    swiftURL,
	}
}

// locateHeader scans all table cells in document order for the configured
// header phrases and returns the matched cell and phrase. The first match is
// refined downward: a layout wrapper cell's text includes everything nested
// inside it, so when a cell within the current match also carries a phrase,
// the nested cell wins. The resolved table is then the innermost one holding
// the header, never an outer wrapper. Phrases are tried in configured order
// per cell so a compound phrase beats a generic substring appearing in the
// same text.
func (p *Parser) locateHeader(doc *html.Node) (cell *html.Node, pattern string) {
	walk(doc, func(n *html.Node) bool {
		if !isElement(n, "th", "td") {
			return true
		}
		// After the first match, only cells nested inside it can refine it.
		if cell != nil && !hasAncestor(n, cell) {
			return true
		}
		text := strings.ToUpper(nodeText(n))
		for _, phrase := range p.cfg.HeaderPatterns {
			if strings.Contains(text, phrase) {
				cell = n
				pattern = phrase
				break
			}
		}
		return true
	})
	return cell, pattern
}

// hasAncestor reports whether ancestor lies on n's parent chain.
func hasAncestor(n, ancestor *html.Node) bool {
	for a := n.Parent; a != nil; a = a.Parent {
		if a == ancestor {
			return true
		}
	}
	return false
}

// headerLine returns the line of cell text containing the matched pattern.
// Classification reads only that line, not the whole cell, so content from
// nested tables or leftover hidden strings packed into the same cell cannot
// skew the package type.
func headerLine(cell *html.Node, pattern string) string {
	for _, line := range nodeLines(cell) {
		if strings.Contains(strings.ToUpper(line), pattern) {
			return line
		}
	}
	return nodeText(cell)
}

// classify derives the package type label from the header line. It is total:
// every input maps to a non-empty label.
//
// Examples:
//
//	"POST MODIFICATION INSPECTION CLOSE OUT PACKAGE" → "PMI"
//	"LANDLORD CLOSE OUT PACKAGE COMPLETE"            → "LL COP"
//	"48HR CLOSE OUT PACKAGE REVIEW"                  → "48HR REVIEW"
//	"CLOSE OUT PACKAGE REVIEW"                       → "REVIEW"
//	"CLOSE OUT PACKAGE REVISION"                     → "REVISION"
func (p *Parser) classify(line string) string {
	t := strings.ToUpper(line)
	switch {
	case strings.Contains(t, "POST MODIFICATION INSPECTION"):
		return TypePMI
	case strings.Contains(t, "LANDLORD") && strings.Contains(t, basePhrase):
		return TypeLLCOP
	case strings.Contains(t, "48") && strings.Contains(t, "REVIEW"):
		return Type48HrReview
	case strings.Contains(t, "REVIEW"):
		return TypeReview
	case strings.Contains(t, "REVISION"):
		return TypeRevision
	}
	// Fallback: the word immediately following the base phrase.
	if idx := strings.Index(t, basePhrase); idx >= 0 {
		rest := strings.Fields(t[idx+len(basePhrase):])
		if len(rest) > 0 {
			return rest[0]
		}
	}
	return TypeUnknown
}

// resolveTable walks the ancestor chain from the header cell and returns the
// nearest enclosing table: the innermost table containing the header, not an
// outer layout wrapper.
func resolveTable(cell *html.Node) *html.Node {
	for n := cell.Parent; n != nil; n = n.Parent {
		if isElement(n, "table") {
			return n
		}
	}
	return nil
}
