package bookdoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// PDFParser extracts paragraphs from PDF manuscripts using pdfcpu for
// page counting, then pulls each page's content stream with
// api.ExtractContent and recovers the text shown by its Tj/TJ operators,
// a crude but dependable technique that avoids wiring up a dedicated
// text-layer extractor.
type PDFParser struct{}

// CanParse reports support for .pdf files.
func (PDFParser) CanParse(ext string) bool {
	return strings.ToLower(ext) == ".pdf"
}

var tjOperator = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)
var tjArrayOperator = regexp.MustCompile(`\[((?:[^\[\]]|\\.)*)\]\s*TJ`)
var tjArrayString = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// Parse writes sourceBytes to a temp file (pdfcpu's extraction API operates
// on a ReadSeeker/on-disk input), extracts each page's content stream, and
// recovers a paragraph per page from the text-showing operators found
// there.
func (PDFParser) Parse(sourceBytes []byte) ([]bookidx.Paragraph, error) {
	tmpDir, err := os.MkdirTemp("", "masterctl-pdf-*")
	if err != nil {
		return nil, perr.Wrap(perr.KindInput, "bookdoc", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpFile := filepath.Join(tmpDir, "source.pdf")
	if err := os.WriteFile(tmpFile, sourceBytes, 0o644); err != nil {
		return nil, perr.Wrap(perr.KindInput, "bookdoc", err)
	}

	f, err := os.Open(tmpFile)
	if err != nil {
		return nil, perr.Wrap(perr.KindInput, "bookdoc", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, perr.Wrap(perr.KindInput, "bookdoc", fmt.Errorf("page count: %w", err))
	}

	contentDir := filepath.Join(tmpDir, "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return nil, perr.Wrap(perr.KindInput, "bookdoc", err)
	}
	if err := api.ExtractContentFile(tmpFile, contentDir, nil, nil); err != nil {
		return nil, perr.Wrap(perr.KindInput, "bookdoc", fmt.Errorf("extract content: %w", err))
	}

	var paragraphs []bookidx.Paragraph
	for page := 1; page <= pageCount; page++ {
		contentFile := filepath.Join(contentDir, fmt.Sprintf("source_Content_page_%d.txt", page))
		data, err := os.ReadFile(contentFile)
		if err != nil {
			continue // page had no extractable content stream
		}
		text := extractTextFromContentStream(data)
		if text == "" {
			continue
		}
		paragraphs = append(paragraphs, bookidx.Paragraph{Text: text})
	}

	return paragraphs, nil
}

// extractTextFromContentStream recovers the literal strings shown by a PDF
// content stream's Tj and TJ operators, concatenating them with spaces.
func extractTextFromContentStream(content []byte) string {
	var sb strings.Builder

	for _, m := range tjOperator.FindAllSubmatch(content, -1) {
		writeUnescaped(&sb, m[1])
	}
	for _, m := range tjArrayOperator.FindAllSubmatch(content, -1) {
		for _, s := range tjArrayString.FindAllSubmatch(m[1], -1) {
			writeUnescaped(&sb, s[1])
		}
	}

	return strings.TrimSpace(sb.String())
}

func writeUnescaped(sb *strings.Builder, raw []byte) {
	unescaped := bytes.ReplaceAll(raw, []byte(`\(`), []byte("("))
	unescaped = bytes.ReplaceAll(unescaped, []byte(`\)`), []byte(")"))
	unescaped = bytes.ReplaceAll(unescaped, []byte(`\\`), []byte(`\`))
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.Write(unescaped)
}
