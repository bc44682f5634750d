package hydrate

import (
	"github.com/jackzampolin/audiobook-master/internal/align"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

// Build assembles a HydratedTranscript from a book index and the windowed
// aligner's result. Deleted book words (no corresponding ASR token) get a
// timing interpolated linearly between the nearest timed neighbors on
// either side; a deleted run at the very start or end of the chapter
// collapses onto the nearest timed word's instant, since there is no
// neighbor to interpolate toward.
func Build(chapterID string, index bookidx.BookIndex, result align.Result) HydratedTranscript {
	words := make([]HydratedWord, len(index.Words))
	for i, bw := range index.Words {
		words[i] = HydratedWord{BookWordIndex: bw.WordIndex, Text: bw.Text, Source: SourceMissing}
	}

	for _, wa := range result.Words {
		if wa.BookWordIndex < 0 || wa.BookWordIndex >= len(words) {
			continue
		}
		switch wa.Op {
		case align.OpMatch, align.OpSub:
			words[wa.BookWordIndex].StartSec = wa.StartSec
			words[wa.BookWordIndex].EndSec = wa.EndSec
			words[wa.BookWordIndex].Source = SourceASR
		}
	}

	interpolateGaps(words)

	return HydratedTranscript{
		ChapterID:  chapterID,
		Words:      words,
		Sentences:  hydrateSentences(index.Sentences, words),
		Paragraphs: hydrateParagraphs(index.Paragraphs, words),
		Sections:   hydrateSections(index.Sections, words),
	}
}

// interpolateGaps fills in StartSec/EndSec for every run of SourceMissing
// words by linearly spacing them between the nearest timed neighbors.
func interpolateGaps(words []HydratedWord) {
	n := len(words)
	i := 0
	for i < n {
		if words[i].Source != SourceMissing {
			i++
			continue
		}
		start := i
		for i < n && words[i].Source == SourceMissing {
			i++
		}
		end := i // exclusive
		fillGap(words, start, end)
	}
}

func fillGap(words []HydratedWord, start, end int) {
	var before, after *HydratedWord
	if start > 0 {
		before = &words[start-1]
	}
	if end < len(words) {
		after = &words[end]
	}
	count := end - start

	switch {
	case before == nil && after == nil:
		return // whole chapter untimed, nothing to interpolate from
	case before == nil:
		for k := start; k < end; k++ {
			words[k].StartSec = after.StartSec
			words[k].EndSec = after.StartSec
			words[k].Source = SourceInterpolated
		}
	case after == nil:
		for k := start; k < end; k++ {
			words[k].StartSec = before.EndSec
			words[k].EndSec = before.EndSec
			words[k].Source = SourceInterpolated
		}
	default:
		span := after.StartSec - before.EndSec
		if span < 0 {
			span = 0
		}
		step := span / float64(count+1)
		for k := start; k < end; k++ {
			offset := float64(k-start+1) * step
			words[k].StartSec = before.EndSec + offset
			words[k].EndSec = before.EndSec + offset
			words[k].Source = SourceInterpolated
		}
	}
}

func hydrateSentences(ranges []bookidx.SentenceRange, words []HydratedWord) []HydratedSentence {
	out := make([]HydratedSentence, len(ranges))
	for i, r := range ranges {
		out[i] = HydratedSentence{SentenceID: r.ID, StartSec: spanStart(words, r.StartWord, r.EndWord), EndSec: spanEnd(words, r.StartWord, r.EndWord)}
	}
	return out
}

func hydrateParagraphs(ranges []bookidx.ParagraphRange, words []HydratedWord) []HydratedParagraph {
	out := make([]HydratedParagraph, len(ranges))
	for i, r := range ranges {
		out[i] = HydratedParagraph{ParagraphID: r.ID, StartSec: spanStart(words, r.StartWord, r.EndWord), EndSec: spanEnd(words, r.StartWord, r.EndWord)}
	}
	return out
}

func hydrateSections(ranges []bookidx.SectionRange, words []HydratedWord) []HydratedSection {
	out := make([]HydratedSection, len(ranges))
	for i, r := range ranges {
		out[i] = HydratedSection{SectionID: r.ID, StartSec: spanStart(words, r.StartWord, r.EndWord), EndSec: spanEnd(words, r.StartWord, r.EndWord)}
	}
	return out
}

func spanStart(words []HydratedWord, start, end int) float64 {
	if start < 0 || start >= len(words) || start > end {
		return 0
	}
	return words[start].StartSec
}

func spanEnd(words []HydratedWord, start, end int) float64 {
	if end < 0 || end >= len(words) || start > end {
		return 0
	}
	return words[end].EndSec
}
