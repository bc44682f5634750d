package bookidx

import (
	"regexp"
	"strings"
)

// headingPatterns classify a paragraph's text as a section heading when the
// parser did not supply style metadata (e.g. a plaintext manuscript with no
// markup). Checked in order; first match wins.
var headingPatterns = []struct {
	re   *regexp.Regexp
	kind SectionKind
}{
	{regexp.MustCompile(`(?i)^chapter\s+[0-9ivxlcdm]+\b`), SectionChapter},
	{regexp.MustCompile(`(?i)^prologue\b`), SectionPrologue},
	{regexp.MustCompile(`(?i)^epilogue\b`), SectionEpilogue},
	{regexp.MustCompile(`(?i)^foreword\b`), SectionForeword},
	{regexp.MustCompile(`(?i)^afterword\b`), SectionAfterword},
	{regexp.MustCompile(`(?i)^introduction\b`), SectionIntroduction},
	{regexp.MustCompile(`(?i)^appendix\b`), SectionAppendix},
	{regexp.MustCompile(`(?i)^acknowledg(e)?ments\b`), SectionAcknowledgments},
}

// detectHeading inspects a paragraph and reports whether it opens a new
// section, along with the section's kind and title. A paragraph marked
// Heading by the document parser always opens a section (kind defaults to
// SectionChapter unless the text itself matches a more specific pattern).
func detectHeading(p Paragraph) (isHeading bool, kind SectionKind, title string) {
	trimmed := strings.TrimSpace(p.Text)
	if trimmed == "" {
		return false, "", ""
	}
	for _, hp := range headingPatterns {
		if hp.re.MatchString(trimmed) {
			return true, hp.kind, trimmed
		}
	}
	if p.Heading {
		return true, SectionChapter, trimmed
	}
	return false, "", ""
}

// disambiguateTitles appends " (A)", " (B)", ... to section titles that
// repeat verbatim, in document order, so downstream references to "section
// titled X" stay unambiguous.
func disambiguateTitles(sections []SectionRange) {
	seen := map[string]int{}
	counts := map[string]int{}
	for _, s := range sections {
		counts[s.Title]++
	}
	for i := range sections {
		title := sections[i].Title
		if counts[title] <= 1 {
			continue
		}
		seen[title]++
		sections[i].Title = title + " (" + letterSuffix(seen[title]) + ")"
	}
}

// letterSuffix maps 1,2,3,... to "A","B","C",...,"Z","AA","AB",...
func letterSuffix(n int) string {
	var b strings.Builder
	for n > 0 {
		n--
		b.WriteByte(byte('A' + n%26))
		n /= 26
	}
	s := b.String()
	// reverse
	r := []byte(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
