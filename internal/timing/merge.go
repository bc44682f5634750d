package timing

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/hydrate"
)

// DefaultLookahead is how many positions the merger searches ahead on
// either side before giving up and leaving a word's existing (ASR or
// interpolated) timing in place.
const DefaultLookahead = 3

func normText(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(s)
}

// Merge replaces ASR-derived word timings in ht with forced-alignment
// timings from grid's word tier wherever a confident text match is found,
// then recomputes sentence/paragraph/section spans from the corrected
// word timings. Words the merger could not confidently match keep their
// prior timing and source (the documented fallback: a word that
// forced alignment dropped or renamed is not corrupted, just left as it
// was hydrated).
func Merge(index bookidx.BookIndex, ht hydrate.HydratedTranscript, grid TextGrid, lookahead int) (hydrate.HydratedTranscript, []string) {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	tier := grid.WordsTier()
	var warnings []string
	if tier == nil {
		return ht, []string{"textgrid has no words tier; timing merge skipped"}
	}

	var speech []Interval
	for _, iv := range tier.Intervals {
		if strings.TrimSpace(iv.Text) != "" {
			speech = append(speech, iv)
		}
	}

	words := make([]hydrate.HydratedWord, len(ht.Words))
	copy(words, ht.Words)

	wi, ii := 0, 0
	for wi < len(words) && ii < len(speech) {
		if normText(words[wi].Text) == normText(speech[ii].Text) {
			words[wi].StartSec = speech[ii].XMin
			words[wi].EndSec = speech[ii].XMax
			words[wi].Source = hydrate.SourceForcedAligned
			wi++
			ii++
			continue
		}

		if j := lookAheadWord(words, wi, speech[ii].Text, lookahead); j >= 0 {
			wi = j
			continue
		}
		if k := lookAheadInterval(speech, ii, words[wi].Text, lookahead); k >= 0 {
			ii = k
			continue
		}
		warnings = append(warnings, "could not resync forced alignment at word index "+strconv.Itoa(words[wi].BookWordIndex))
		ii++
	}

	out := hydrate.HydratedTranscript{
		ChapterID: ht.ChapterID,
		Words:     words,
	}
	out.Sentences = recomputeSentences(index.Sentences, words)
	out.Paragraphs = recomputeParagraphs(index.Paragraphs, words)
	out.Sections = recomputeSections(index.Sections, words)
	return out, warnings
}

// lookAheadWord scans forward up to `lookahead` hydrated words from start
// for one whose text matches target; returns its index or -1.
func lookAheadWord(words []hydrate.HydratedWord, start int, target string, lookahead int) int {
	target = normText(target)
	for k := 1; k <= lookahead && start+k < len(words); k++ {
		if normText(words[start+k].Text) == target {
			return start + k
		}
	}
	return -1
}

// lookAheadInterval is the mirror of lookAheadWord on the TextGrid side.
func lookAheadInterval(speech []Interval, start int, target string, lookahead int) int {
	target = normText(target)
	for k := 1; k <= lookahead && start+k < len(speech); k++ {
		if normText(speech[start+k].Text) == target {
			return start + k
		}
	}
	return -1
}

func recomputeSentences(ranges []bookidx.SentenceRange, words []hydrate.HydratedWord) []hydrate.HydratedSentence {
	out := make([]hydrate.HydratedSentence, len(ranges))
	for i, r := range ranges {
		out[i] = hydrate.HydratedSentence{SentenceID: r.ID, StartSec: wordStart(words, r.StartWord), EndSec: wordEnd(words, r.EndWord)}
	}
	return out
}

func recomputeParagraphs(ranges []bookidx.ParagraphRange, words []hydrate.HydratedWord) []hydrate.HydratedParagraph {
	out := make([]hydrate.HydratedParagraph, len(ranges))
	for i, r := range ranges {
		out[i] = hydrate.HydratedParagraph{ParagraphID: r.ID, StartSec: wordStart(words, r.StartWord), EndSec: wordEnd(words, r.EndWord)}
	}
	return out
}

func recomputeSections(ranges []bookidx.SectionRange, words []hydrate.HydratedWord) []hydrate.HydratedSection {
	out := make([]hydrate.HydratedSection, len(ranges))
	for i, r := range ranges {
		out[i] = hydrate.HydratedSection{SectionID: r.ID, StartSec: wordStart(words, r.StartWord), EndSec: wordEnd(words, r.EndWord)}
	}
	return out
}

func wordStart(words []hydrate.HydratedWord, idx int) float64 {
	if idx < 0 || idx >= len(words) {
		return 0
	}
	return words[idx].StartSec
}

func wordEnd(words []hydrate.HydratedWord, idx int) float64 {
	if idx < 0 || idx >= len(words) {
		return 0
	}
	return words[idx].EndSec
}
