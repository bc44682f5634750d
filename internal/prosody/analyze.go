package prosody

import (
	"sort"

	"github.com/jackzampolin/audiobook-master/internal/hydrate"
)

// Analyze walks ht's word timeline and returns every gap of at least
// params.MinPauseSec, classified by which structural boundary (if any) it
// coincides with. The chapter's very first pause before any speech is
// classified ChapterHead, and the pause after the last spoken word is
// ClassTail; everything else defaults to Sentence/Paragraph/Comma based on
// whether it falls on a sentence end, a paragraph end, or neither.
func Analyze(ht hydrate.HydratedTranscript, params Params) []PauseSpan {
	if params.MinPauseSec <= 0 {
		params = DefaultParams()
	}
	if len(ht.Words) == 0 {
		return nil
	}

	sentenceEnds := wordIndexSet(ht.Sentences, func(s hydrate.HydratedSentence) float64 { return s.EndSec })
	paragraphEnds := wordIndexSet(ht.Paragraphs, func(p hydrate.HydratedParagraph) float64 { return p.EndSec })

	var spans []PauseSpan

	if ht.Words[0].StartSec > params.MinPauseSec {
		spans = append(spans, PauseSpan{StartSec: 0, EndSec: ht.Words[0].StartSec, Class: ClassChapterHead})
	}

	for i := 1; i < len(ht.Words); i++ {
		prev, cur := ht.Words[i-1], ht.Words[i]
		gap := cur.StartSec - prev.EndSec
		if gap < params.MinPauseSec {
			continue
		}
		class := ClassComma
		switch {
		case paragraphEnds[prev.EndSec]:
			class = ClassParagraph
		case sentenceEnds[prev.EndSec]:
			class = ClassSentence
		}
		spans = append(spans, PauseSpan{StartSec: prev.EndSec, EndSec: cur.StartSec, Class: class})
	}

	last := ht.Words[len(ht.Words)-1]
	if len(ht.Sections) > 0 {
		lastSection := ht.Sections[len(ht.Sections)-1]
		if lastSection.EndSec > last.EndSec+params.MinPauseSec {
			spans = append(spans, PauseSpan{StartSec: last.EndSec, EndSec: lastSection.EndSec, Class: ClassPostChapterRead})
		}
	}
	spans = append(spans, PauseSpan{StartSec: last.EndSec, EndSec: last.EndSec, Class: ClassTail})

	return spans
}

func wordIndexSet[T any](items []T, end func(T) float64) map[float64]bool {
	set := make(map[float64]bool, len(items))
	for _, it := range items {
		set[end(it)] = true
	}
	return set
}

// Summarize aggregates PauseSpans into one ClassSummary per class, sorted
// for deterministic output.
func Summarize(spans []PauseSpan) []ClassSummary {
	byClass := map[Class]*ClassSummary{}
	for _, s := range spans {
		d := s.Duration()
		cs, ok := byClass[s.Class]
		if !ok {
			cs = &ClassSummary{Class: s.Class, MinSec: d, MaxSec: d}
			byClass[s.Class] = cs
		}
		cs.Count++
		cs.TotalSec += d
		if d < cs.MinSec {
			cs.MinSec = d
		}
		if d > cs.MaxSec {
			cs.MaxSec = d
		}
	}
	out := make([]ClassSummary, 0, len(byClass))
	for _, cs := range byClass {
		if cs.Count > 0 {
			cs.MeanSec = cs.TotalSec / float64(cs.Count)
		}
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}
