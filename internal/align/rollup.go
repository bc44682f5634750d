package align

import "github.com/jackzampolin/audiobook-master/internal/bookidx"

// Status thresholds: ok requires both a low WER and few missing book
// words, since a short sentence that loses its only few words to
// deletions reads as far worse than its WER alone suggests.
const (
	okWERCeiling        = 0.10
	okMaxMissingRuns    = 3
	attentionWERCeiling = 0.25
)

func statusFor(wer float64, missingRuns int) Status {
	switch {
	case wer <= okWERCeiling && missingRuns < okMaxMissingRuns:
		return StatusOK
	case wer <= attentionWERCeiling:
		return StatusAttention
	default:
		return StatusUnreliable
	}
}

// wordRange is the minimal shape rollupRanges needs from a sentence or
// paragraph: an ID and its inclusive [start,end] book-word span.
type wordRange struct {
	id        int
	startWord int
	endWord   int
}

// rangeStats accumulates the raw op counts rollupRanges needs to derive
// WER, coverage, and status for one wordRange.
type rangeStats struct {
	subs, dels, ins int
	wordCount       int
	words           []WordAlign
}

func (s rangeStats) wer() float64 {
	if s.wordCount == 0 {
		return 0
	}
	return float64(s.subs+s.dels+s.ins) / float64(s.wordCount)
}

func (s rangeStats) coverage() float64 {
	if s.wordCount == 0 {
		return 1
	}
	return 1 - float64(s.dels)/float64(s.wordCount)
}

// rollupRanges buckets a word alignment against a sorted, non-overlapping
// set of book-word ranges (sentences or paragraphs).
//
// Match/Sub/Del ops have a BookWordIndex and bucket directly by it. Ins
// ops have none, so per the windowed aligner's rollup rule they instead
// bucket against every range whose Match/Sub ops bound an ASR span
// containing the insertion's AsrTokenIndex: [min_asr_in_range,
// max_asr_in_range]. This keeps an insertion far from a range's own
// words (e.g. one that belongs to a neighboring anchor) from inflating
// that range's WER.
func rollupRanges(ranges []wordRange, words []WordAlign, keepWords bool) []rangeStats {
	out := make([]rangeStats, len(ranges))
	minAsr := make([]int, len(ranges))
	maxAsr := make([]int, len(ranges))
	for i, r := range ranges {
		minAsr[i] = -1
		maxAsr[i] = -1
		out[i].wordCount = r.endWord - r.startWord + 1
	}

	rangeOf := func(bookWordIndex int) int {
		lo, hi := 0, len(ranges)-1
		for lo <= hi {
			mid := (lo + hi) / 2
			r := ranges[mid]
			switch {
			case bookWordIndex < r.startWord:
				hi = mid - 1
			case bookWordIndex > r.endWord:
				lo = mid + 1
			default:
				return mid
			}
		}
		return -1
	}

	var insOps []WordAlign
	for _, w := range words {
		if w.BookWordIndex < 0 {
			if w.Op == OpIns {
				insOps = append(insOps, w)
			}
			continue
		}
		idx := rangeOf(w.BookWordIndex)
		if idx < 0 {
			continue
		}
		if keepWords {
			out[idx].words = append(out[idx].words, w)
		}
		switch w.Op {
		case OpSub:
			out[idx].subs++
		case OpDel:
			out[idx].dels++
		}
		if w.AsrTokenIndex >= 0 {
			if minAsr[idx] < 0 || w.AsrTokenIndex < minAsr[idx] {
				minAsr[idx] = w.AsrTokenIndex
			}
			if w.AsrTokenIndex > maxAsr[idx] {
				maxAsr[idx] = w.AsrTokenIndex
			}
		}
	}

	for _, w := range insOps {
		for i := range ranges {
			if minAsr[i] < 0 || w.AsrTokenIndex < minAsr[i] || w.AsrTokenIndex > maxAsr[i] {
				continue
			}
			out[i].ins++
			if keepWords {
				out[i].words = append(out[i].words, w)
			}
		}
	}

	return out
}

// rollupSentences rolls the word alignment up into one SentenceAlign per
// book sentence.
func rollupSentences(ranges []bookidx.SentenceRange, words []WordAlign) []SentenceAlign {
	wr := make([]wordRange, len(ranges))
	for i, r := range ranges {
		wr[i] = wordRange{id: r.ID, startWord: r.StartWord, endWord: r.EndWord}
	}
	stats := rollupRanges(wr, words, true)

	out := make([]SentenceAlign, len(ranges))
	for i, r := range ranges {
		s := stats[i]
		out[i] = SentenceAlign{
			SentenceID:  r.ID,
			Words:       s.words,
			WER:         s.wer(),
			Coverage:    s.coverage(),
			MissingRuns: s.dels,
			Status:      statusFor(s.wer(), s.dels),
		}
	}
	return out
}

// rollupParagraphs rolls the word alignment up into one ParagraphAlign
// per book paragraph, using the paragraph's own [start,end] word range
// rather than re-aggregating its sentences, so the rollup formula is
// identical at both granularities.
func rollupParagraphs(paraRanges []bookidx.ParagraphRange, words []WordAlign) []ParagraphAlign {
	wr := make([]wordRange, len(paraRanges))
	for i, r := range paraRanges {
		wr[i] = wordRange{id: r.ID, startWord: r.StartWord, endWord: r.EndWord}
	}
	stats := rollupRanges(wr, words, false)

	out := make([]ParagraphAlign, len(paraRanges))
	for i, r := range paraRanges {
		s := stats[i]
		out[i] = ParagraphAlign{
			ParagraphID: r.ID,
			WER:         s.wer(),
			Coverage:    s.coverage(),
			MissingRuns: s.dels,
			Status:      statusFor(s.wer(), s.dels),
		}
	}
	return out
}
