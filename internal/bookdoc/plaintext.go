// Package bookdoc implements the document-parsing side of manuscript
// ingestion: turning a raw source file into the paragraph stream the Book
// Indexer (internal/bookidx) tokenizes.
package bookdoc

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

// PlaintextParser parses .txt and .md manuscripts into paragraphs,
// splitting on blank lines the way a human author separates paragraphs in
// a plain-text draft. Markdown heading markers (`#`, `##`, ...) are
// recognized as section headings.
type PlaintextParser struct{}

// CanParse reports support for .txt and .md files.
func (PlaintextParser) CanParse(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".md", ".markdown":
		return true
	default:
		return false
	}
}

// Parse splits sourceBytes into paragraphs on blank lines.
func (PlaintextParser) Parse(sourceBytes []byte) ([]bookidx.Paragraph, error) {
	var paragraphs []bookidx.Paragraph
	var buf strings.Builder

	flush := func() {
		text := strings.TrimSpace(buf.String())
		if text != "" {
			paragraphs = append(paragraphs, bookidx.Paragraph{Text: text})
		}
		buf.Reset()
	}

	scanner := bufio.NewScanner(bytes.NewReader(sourceBytes))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		if level, heading := markdownHeading(trimmed); heading != "" {
			flush()
			paragraphs = append(paragraphs, bookidx.Paragraph{
				Text:         heading,
				Heading:      true,
				HeadingLevel: level,
			})
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(trimmed)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paragraphs, nil
}

// markdownHeading reports whether line is a markdown ATX heading
// ("# Title", "## Title", ...), returning its level and stripped text.
func markdownHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, ""
	}
	if level >= len(line) || line[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level+1:])
}
