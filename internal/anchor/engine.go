package anchor

import (
	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

// Find runs the full Anchor Engine: normalize both word streams, generate
// unique n-gram candidates, enforce monotonicity with LIS, and carve the
// remaining gaps into AnchorWindows.
func Find(bookWords []bookidx.BookWord, asrTokens []asr.AsrToken, params Params) ([]Anchor, []AnchorWindow) {
	bookNorm := make([]string, len(bookWords))
	bookSentence := make([]int, len(bookWords))
	for i, w := range bookWords {
		n := normalize(w.Text)
		if params.Stopwords[n] {
			n = ""
		}
		bookNorm[i] = n
		bookSentence[i] = w.SentenceIndex
	}
	asrNorm := make([]string, len(asrTokens))
	for i, t := range asrTokens {
		n := normalize(t.Text)
		if params.Stopwords[n] {
			n = ""
		}
		asrNorm[i] = n
	}

	cands := findCandidates(bookNorm, asrNorm, bookSentence, params)
	monotonic := longestIncreasingByAsr(cands)

	anchors := make([]Anchor, len(monotonic))
	for i, c := range monotonic {
		anchors[i] = Anchor{ID: i, BookWordIndex: c.bookIndex, AsrTokenIndex: c.asrIndex, Length: c.length}
	}

	windows := buildWindows(anchors, len(bookWords), len(asrTokens))
	return anchors, windows
}

// buildWindows carves [0,bookLen) x [0,asrLen) into the gaps between
// consecutive anchors, including the leading gap before the first anchor
// and the trailing gap after the last. A window with BookEnd < BookStart
// (or AsrEnd < AsrStart) is a zero-width gap and is still emitted so the
// aligner can trivially confirm "nothing to align here" rather than the
// window vanishing silently.
func buildWindows(anchors []Anchor, bookLen, asrLen int) []AnchorWindow {
	var windows []AnchorWindow
	bookCursor, asrCursor := 0, 0
	var prev *Anchor

	addWindow := func(bs, be, as, ae int, start, end *Anchor) {
		windows = append(windows, AnchorWindow{
			ID: len(windows), BookStart: bs, BookEnd: be, AsrStart: as, AsrEnd: ae,
			StartAnchor: start, EndAnchor: end,
		})
	}

	for i := range anchors {
		a := &anchors[i]
		addWindow(bookCursor, a.BookWordIndex-1, asrCursor, a.AsrTokenIndex-1, prev, a)
		bookCursor = a.BookWordIndex + a.Length
		asrCursor = a.AsrTokenIndex + a.Length
		prev = a
	}
	addWindow(bookCursor, bookLen-1, asrCursor, asrLen-1, prev, nil)
	return windows
}
