package copparse

// Package type labels produced by the classifier.
const (
	TypePMI        = "PMI"
	TypeLLCOP      = "LL COP"
	Type48HrReview = "48HR REVIEW"
	TypeReview     = "REVIEW"
	TypeRevision   = "REVISION"
	TypeUnknown    = "UNKNOWN"
)

// basePhrase is the header phrase shared by every report variant.
const basePhrase = "CLOSE OUT PACKAGE"

// Config holds the fixed vocabulary the parser matches against. All fields
// are treated as immutable after construction; a Parser never mutates its
// Config, which keeps concurrent Parse calls coordination-free.
type Config struct {
	// HeaderPatterns are the phrases that identify a report header cell,
	// checked in order per cell. More specific phrases must come before
	// phrases they contain as a substring, so that a compound header like
	// "LANDLORD CLOSE OUT PACKAGE" wins over the generic base phrase.
	HeaderPatterns []string

	// SectionHeaders are cell texts (uppercase) that introduce table
	// sections and must never be captured as field labels.
	SectionHeaders map[string]struct{}

	// DropboxDomain and SwiftDomain are the href substrings that classify
	// the two fixed download links.
	DropboxDomain string
	SwiftDomain   string
}

// DefaultConfig returns the production vocabulary.
func DefaultConfig() Config {
	return Config{
		HeaderPatterns: []string{
			"LANDLORD CLOSE OUT PACKAGE",
			basePhrase,
		},
		SectionHeaders: map[string]struct{}{
			"SITE TIMELINES":             {},
			"DOWNLOAD LINKS":             {},
			"COP LINKS":                  {},
			"ADDITIONAL NOTES":           {},
			"PENDING ITEMS":              {},
			"CLOSE OUT PACKAGE":          {},
			"LANDLORD CLOSE OUT PACKAGE": {},
		},
		DropboxDomain: "dropbox.com",
		SwiftDomain:   "swiftprojects.io",
	}
}

// Parser extracts close-out package reports from HTML bodies. The zero value
// is not usable; construct with New.
type Parser struct {
	cfg Config
}

// New returns a Parser using the given vocabulary. The caller must not
// mutate cfg after passing it in.
func New(cfg Config) *Parser {
	return &Parser{cfg: cfg}
}

// NewDefault returns a Parser with the production vocabulary.
func NewDefault() *Parser {
	return New(DefaultConfig())
}
