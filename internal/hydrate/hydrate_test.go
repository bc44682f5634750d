package hydrate

import (
	"testing"

	"github.com/jackzampolin/audiobook-master/internal/align"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

func TestBuild_InterpolatesInteriorGap(t *testing.T) {
	index := bookidx.BookIndex{
		Words: []bookidx.BookWord{
			{Text: "one", WordIndex: 0},
			{Text: "two", WordIndex: 1},
			{Text: "three", WordIndex: 2},
			{Text: "four", WordIndex: 3},
		},
		Sentences:  []bookidx.SentenceRange{{ID: 0, StartWord: 0, EndWord: 3}},
		Paragraphs: []bookidx.ParagraphRange{{ID: 0, StartWord: 0, EndWord: 3}},
	}
	result := align.Result{Words: []align.WordAlign{
		{Op: align.OpMatch, BookWordIndex: 0, AsrTokenIndex: 0, StartSec: 0, EndSec: 1},
		{Op: align.OpDel, BookWordIndex: 1, AsrTokenIndex: -1},
		{Op: align.OpDel, BookWordIndex: 2, AsrTokenIndex: -1},
		{Op: align.OpMatch, BookWordIndex: 3, AsrTokenIndex: 1, StartSec: 4, EndSec: 5},
	}}

	ht := Build("ch1", index, result)
	if ht.Words[1].Source != SourceInterpolated || ht.Words[2].Source != SourceInterpolated {
		t.Fatalf("expected interior gap words interpolated, got %+v", ht.Words)
	}
	if ht.Words[1].StartSec <= ht.Words[0].EndSec || ht.Words[1].StartSec >= ht.Words[3].StartSec {
		t.Fatalf("expected interpolated timing strictly between neighbors, got %+v", ht.Words[1])
	}
	if ht.Sentences[0].StartSec != 0 || ht.Sentences[0].EndSec != 5 {
		t.Fatalf("expected sentence span [0,5], got %+v", ht.Sentences[0])
	}
}

func TestBuild_LeadingGapCollapsesToFirstTimedWord(t *testing.T) {
	index := bookidx.BookIndex{
		Words: []bookidx.BookWord{
			{Text: "lost", WordIndex: 0},
			{Text: "found", WordIndex: 1},
		},
	}
	result := align.Result{Words: []align.WordAlign{
		{Op: align.OpDel, BookWordIndex: 0, AsrTokenIndex: -1},
		{Op: align.OpMatch, BookWordIndex: 1, AsrTokenIndex: 0, StartSec: 2, EndSec: 3},
	}}
	ht := Build("ch1", index, result)
	if ht.Words[0].StartSec != 2 {
		t.Fatalf("expected leading gap collapsed to 2, got %f", ht.Words[0].StartSec)
	}
}
