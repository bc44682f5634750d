package bookdoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mholt/archives"

	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// ContainerUnwrapper sniffs a manuscript source for a zip-based container
// format (.docx, .epub submitted as source material rather than as an
// export target) and returns the plain text/markdown payload inside so the
// regular PlaintextParser can take over, rather than teaching every parser
// backend about zip internals.
type ContainerUnwrapper struct {
	// EntryNames lists the in-archive paths to look for, tried in order;
	// the first one found wins. docx manuscripts store body text in
	// word/document.xml; an epub-as-source bundle typically carries a
	// plain text dump alongside its OPF package at text/manuscript.txt.
	EntryNames []string
}

// DefaultContainerUnwrapper looks for the conventional docx body entry,
// then text/manuscript.txt, then a top-level manuscript.txt.
func DefaultContainerUnwrapper() ContainerUnwrapper {
	return ContainerUnwrapper{EntryNames: []string{"word/document.xml", "text/manuscript.txt", "manuscript.txt"}}
}

// Sniff identifies sourceBytes' archive format, returning ok=false if it is
// not a recognized container (the caller should fall back to treating the
// bytes as plain text).
func (c ContainerUnwrapper) Sniff(ctx context.Context, filename string, sourceBytes []byte) (archives.Format, bool) {
	format, _, err := archives.Identify(ctx, filename, bytes.NewReader(sourceBytes))
	if err != nil {
		return nil, false
	}
	return format, true
}

// Unwrap extracts the first matching entry from the container and strips
// any XML/HTML markup it carries down to raw prose text.
func (c ContainerUnwrapper) Unwrap(ctx context.Context, format archives.Format, sourceBytes []byte) ([]byte, error) {
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, perr.New(perr.KindInput, "bookdoc", "archive format does not support extraction")
	}

	var found []byte
	err := extractor.Extract(ctx, bytes.NewReader(sourceBytes), func(ctx context.Context, f archives.FileInfo) error {
		if found != nil {
			return nil
		}
		if !matchesAny(f.NameInArchive, c.EntryNames) {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		found = data
		return nil
	})
	if err != nil {
		return nil, perr.Wrap(perr.KindInput, "bookdoc", fmt.Errorf("extract container: %w", err))
	}
	if found == nil {
		return nil, perr.New(perr.KindInput, "bookdoc", "no recognized manuscript entry found in container")
	}

	return stripMarkup(found), nil
}

func matchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

// stripMarkup removes XML/HTML tags, leaving the text between them. It is
// intentionally crude: docx body paragraphs are walked by the caller's
// blank-line paragraph splitter after this pass, not here.
func stripMarkup(data []byte) []byte {
	var sb strings.Builder
	inTag := false
	for _, r := range string(data) {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteByte('\n')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return []byte(sb.String())
}
