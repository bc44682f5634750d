package timing

import (
	"testing"

	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/hydrate"
)

func TestMerge_ExactMatchUsesForcedAlignedTiming(t *testing.T) {
	index := bookidx.BookIndex{
		Sentences:  []bookidx.SentenceRange{{ID: 0, StartWord: 0, EndWord: 1}},
		Paragraphs: []bookidx.ParagraphRange{{ID: 0, StartWord: 0, EndWord: 1}},
	}
	ht := hydrate.HydratedTranscript{
		Words: []hydrate.HydratedWord{
			{BookWordIndex: 0, Text: "hello", StartSec: 0, EndSec: 0.1, Source: hydrate.SourceASR},
			{BookWordIndex: 1, Text: "world", StartSec: 0.1, EndSec: 0.2, Source: hydrate.SourceASR},
		},
	}
	grid := TextGrid{Tiers: []Tier{{Name: "words", Intervals: []Interval{
		{XMin: 0, XMax: 1, Text: "hello"},
		{XMin: 1, XMax: 2, Text: "world"},
	}}}}

	merged, warnings := Merge(index, ht, grid, 0)
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if merged.Words[0].Source != hydrate.SourceForcedAligned || merged.Words[0].EndSec != 1 {
		t.Fatalf("expected forced-aligned timing, got %+v", merged.Words[0])
	}
	if merged.Sentences[0].StartSec != 0 || merged.Sentences[0].EndSec != 2 {
		t.Fatalf("expected recomputed sentence span [0,2], got %+v", merged.Sentences[0])
	}
}

func TestMerge_LookaheadResyncsAfterExtraInterval(t *testing.T) {
	index := bookidx.BookIndex{}
	ht := hydrate.HydratedTranscript{
		Words: []hydrate.HydratedWord{
			{BookWordIndex: 0, Text: "alpha", StartSec: 0, EndSec: 1, Source: hydrate.SourceASR},
			{BookWordIndex: 1, Text: "beta", StartSec: 1, EndSec: 2, Source: hydrate.SourceASR},
		},
	}
	grid := TextGrid{Tiers: []Tier{{Name: "words", Intervals: []Interval{
		{XMin: 0, XMax: 0.5, Text: "alpha"},
		{XMin: 0.5, XMax: 0.7, Text: "uh"},
		{XMin: 0.7, XMax: 2, Text: "beta"},
	}}}}

	merged, _ := Merge(index, ht, grid, 3)
	if merged.Words[1].Source != hydrate.SourceForcedAligned {
		t.Fatalf("expected lookahead to resync 'beta', got %+v", merged.Words[1])
	}
	if merged.Words[1].StartSec != 0.7 {
		t.Fatalf("expected resynced start 0.7, got %f", merged.Words[1].StartSec)
	}
}

func TestMerge_NoWordsTierFallsBackUnchanged(t *testing.T) {
	ht := hydrate.HydratedTranscript{Words: []hydrate.HydratedWord{{Text: "x", StartSec: 1, EndSec: 2, Source: hydrate.SourceASR}}}
	grid := TextGrid{Tiers: []Tier{{Name: "phones"}}}
	merged, warnings := Merge(bookidx.BookIndex{}, ht, grid, 0)
	if len(warnings) == 0 {
		t.Fatal("expected a warning when no words tier is present")
	}
	if merged.Words[0].Source != hydrate.SourceASR {
		t.Fatalf("expected timing untouched, got %+v", merged.Words[0])
	}
}
