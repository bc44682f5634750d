package align

import (
	"strings"
	"unicode"

	"github.com/jackzampolin/audiobook-master/internal/anchor"
	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

func normWord(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToLower(s)
}

// Align runs the DP aligner over every AnchorWindow, synthesizes a Match
// WordAlign for each anchor itself, and rolls the combined word-level
// alignment up into sentence and paragraph statistics.
//
// equiv and fillers are the cost model's two aligner inputs: equiv maps a
// narration spelling to its canonical book form ("cant" -> "can't") so
// the pair compares equal instead of as a substitution, and fillers
// names ASR tokens ("um", "uh") that insert cheaply rather than counting
// as a genuinely extra word.
func Align(bookWords []bookidx.BookWord, asrTokens []asr.AsrToken, anchors []anchor.Anchor, windows []anchor.AnchorWindow, index bookidx.BookIndex, equiv Equivalence, fillers FillerSet) Result {
	var words []WordAlign

	for _, w := range windows {
		words = append(words, alignWindow(bookWords, asrTokens, w, equiv, fillers)...)
		if w.EndAnchor != nil {
			words = append(words, anchorMatches(bookWords, asrTokens, *w.EndAnchor)...)
		}
	}

	sentences := rollupSentences(index.Sentences, words)
	paragraphs := rollupParagraphs(index.Paragraphs, words)

	return Result{Words: words, Sentences: sentences, Paragraphs: paragraphs}
}

// anchorMatches expands an n-gram anchor into one Match WordAlign per word
// it spans. An anchor is by construction a confident exact (or
// relaxed-equivalent) run, so every word scores equal_or_equiv at full
// confidence.
func anchorMatches(bookWords []bookidx.BookWord, asrTokens []asr.AsrToken, a anchor.Anchor) []WordAlign {
	out := make([]WordAlign, 0, a.Length)
	for k := 0; k < a.Length; k++ {
		bi := a.BookWordIndex + k
		ai := a.AsrTokenIndex + k
		wa := WordAlign{Op: OpMatch, BookWordIndex: bi, AsrTokenIndex: ai, Reason: reasonEqualOrEquiv, Score: 1.0}
		if ai < len(asrTokens) {
			wa.StartSec = asrTokens[ai].StartSec
			wa.EndSec = asrTokens[ai].EndSec
		}
		out = append(out, wa)
	}
	return out
}

// alignWindow runs the DP between the book words and ASR tokens spanned by
// one AnchorWindow (which may be empty on either or both sides) and
// translates the resulting ops back to global word/token indices, tagging
// each with the reason and score the cost model assigned it.
func alignWindow(bookWords []bookidx.BookWord, asrTokens []asr.AsrToken, w anchor.AnchorWindow, equiv Equivalence, fillers FillerSet) []WordAlign {
	bookLen := w.BookEnd - w.BookStart + 1
	asrLen := w.AsrEnd - w.AsrStart + 1
	if bookLen < 0 {
		bookLen = 0
	}
	if asrLen < 0 {
		asrLen = 0
	}

	bookNorm := make([]string, bookLen)
	for i := 0; i < bookLen; i++ {
		bookNorm[i] = normWord(bookWords[w.BookStart+i].Text)
	}
	asrNorm := make([]string, asrLen)
	for i := 0; i < asrLen; i++ {
		asrNorm[i] = normWord(asrTokens[w.AsrStart+i].Text)
	}

	ops := alignPair(bookNorm, asrNorm, equiv, fillers)

	out := make([]WordAlign, 0, len(ops))
	bi, ai := w.BookStart, w.AsrStart
	for _, op := range ops {
		switch op {
		case fromDiag:
			b, a := bookNorm[bi-w.BookStart], asrNorm[ai-w.AsrStart]
			cost, reason := subCost(b, a, equiv)
			kind := OpMatch
			if reason != reasonEqualOrEquiv {
				kind = OpSub
			}
			wa := WordAlign{Op: kind, BookWordIndex: bi, AsrTokenIndex: ai, Reason: reason, Score: scoreFromCost(cost)}
			if ai < len(asrTokens) {
				wa.StartSec = asrTokens[ai].StartSec
				wa.EndSec = asrTokens[ai].EndSec
			}
			out = append(out, wa)
			bi++
			ai++
		case fromUp:
			cost, reason := delCost()
			out = append(out, WordAlign{Op: OpDel, BookWordIndex: bi, AsrTokenIndex: -1, Reason: reason, Score: scoreFromCost(cost)})
			bi++
		case fromLeft:
			cost, reason := insCost(asrNorm[ai-w.AsrStart], fillers)
			wa := WordAlign{Op: OpIns, BookWordIndex: -1, AsrTokenIndex: ai, Reason: reason, Score: scoreFromCost(cost)}
			if ai < len(asrTokens) {
				wa.StartSec = asrTokens[ai].StartSec
				wa.EndSec = asrTokens[ai].EndSec
			}
			out = append(out, wa)
			ai++
		}
	}
	return out
}
