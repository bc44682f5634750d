package external

import "github.com/jackzampolin/audiobook-master/internal/bookidx"

// DocumentParser turns a manuscript source file into the paragraph stream
// the Book Indexer consumes. The manuscript format is pluggable;
// internal/bookdoc supplies the built-in plaintext/markdown/PDF
// implementations, registered here by file extension.
type DocumentParser interface {
	// CanParse reports whether this parser handles the given file
	// extension (lowercase, with leading dot, e.g. ".pdf").
	CanParse(ext string) bool
	// Parse extracts paragraphs from raw source bytes.
	Parse(sourceBytes []byte) ([]bookidx.Paragraph, error)
}

// DocumentParserRegistry dispatches a manuscript file to the first
// registered parser that claims its extension.
type DocumentParserRegistry struct {
	parsers []DocumentParser
}

// NewDocumentParserRegistry builds an empty registry.
func NewDocumentParserRegistry() *DocumentParserRegistry {
	return &DocumentParserRegistry{}
}

// Register adds a parser, tried in registration order.
func (r *DocumentParserRegistry) Register(p DocumentParser) {
	r.parsers = append(r.parsers, p)
}

// For returns the first parser willing to handle ext, or nil.
func (r *DocumentParserRegistry) For(ext string) DocumentParser {
	for _, p := range r.parsers {
		if p.CanParse(ext) {
			return p
		}
	}
	return nil
}
