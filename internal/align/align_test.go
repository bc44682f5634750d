package align

import (
	"testing"

	ancpkg "github.com/jackzampolin/audiobook-master/internal/anchor"
	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

func TestAlign_CleanSentenceStatus(t *testing.T) {
	bw := []bookidx.BookWord{
		{Text: "The", WordIndex: 0, SentenceIndex: 0},
		{Text: "cat", WordIndex: 1, SentenceIndex: 0},
		{Text: "sat.", WordIndex: 2, SentenceIndex: 0},
	}
	at := []asr.AsrToken{
		{Text: "The", StartSec: 0, EndSec: 0.2},
		{Text: "cat", StartSec: 0.2, EndSec: 0.4},
		{Text: "sat", StartSec: 0.4, EndSec: 0.6},
	}
	index := bookidx.BookIndex{
		Sentences:  []bookidx.SentenceRange{{ID: 0, StartWord: 0, EndWord: 2}},
		Paragraphs: []bookidx.ParagraphRange{{ID: 0, StartWord: 0, EndWord: 2}},
	}

	anchors, windows := ancpkg.Find(bw, at, ancpkg.DefaultParams())
	result := Align(bw, at, anchors, windows, index, nil, nil)

	if len(result.Sentences) != 1 {
		t.Fatalf("expected 1 sentence rollup, got %d", len(result.Sentences))
	}
	s := result.Sentences[0]
	if s.Status != StatusOK {
		t.Fatalf("expected ok status, got %v (wer=%f)", s.Status, s.WER)
	}
	for _, w := range result.Words {
		if w.Op == OpMatch && w.Reason != reasonEqualOrEquiv {
			t.Fatalf("expected match op to carry equal_or_equiv reason, got %q", w.Reason)
		}
	}
}

func TestAlign_MissingAsrCoverageYieldsUnreliableStatus(t *testing.T) {
	bw := []bookidx.BookWord{
		{Text: "Hello", WordIndex: 0, SentenceIndex: 0},
		{Text: "world.", WordIndex: 1, SentenceIndex: 0},
	}
	index := bookidx.BookIndex{
		Sentences:  []bookidx.SentenceRange{{ID: 0, StartWord: 0, EndWord: 1}},
		Paragraphs: []bookidx.ParagraphRange{{ID: 0, StartWord: 0, EndWord: 1}},
	}
	anchors, windows := ancpkg.Find(bw, nil, ancpkg.DefaultParams())
	result := Align(bw, nil, anchors, windows, index, nil, nil)
	if result.Sentences[0].Status != StatusUnreliable {
		t.Fatalf("expected unreliable status for zero ASR coverage, got %v", result.Sentences[0].Status)
	}
	if result.Sentences[0].MissingRuns != 2 {
		t.Fatalf("expected both book words counted as missing, got %d", result.Sentences[0].MissingRuns)
	}
}

func TestAlign_EquivalenceAvoidsSubstitutionAndFillerTagged(t *testing.T) {
	bw := []bookidx.BookWord{
		{Text: "can't", WordIndex: 0, SentenceIndex: 0},
		{Text: "stop.", WordIndex: 1, SentenceIndex: 0},
	}
	at := []asr.AsrToken{
		{Text: "cant", StartSec: 0, EndSec: 0.2},
		{Text: "um", StartSec: 0.2, EndSec: 0.3},
		{Text: "stop", StartSec: 0.3, EndSec: 0.5},
	}
	index := bookidx.BookIndex{
		Sentences:  []bookidx.SentenceRange{{ID: 0, StartWord: 0, EndWord: 1}},
		Paragraphs: []bookidx.ParagraphRange{{ID: 0, StartWord: 0, EndWord: 1}},
	}
	equiv := Equivalence{"cant": "can't"}
	fillers := FillerSet{"um": true}

	anchors, windows := ancpkg.Find(bw, at, ancpkg.DefaultParams())
	result := Align(bw, at, anchors, windows, index, equiv, fillers)

	// "can't"/"cant" is equivalent, so it must land as a Match, not a Sub,
	// and a Del count of zero keeps coverage perfect even though the
	// filler still counts as an insertion in WER.
	if result.Sentences[0].Coverage != 1 {
		t.Fatalf("expected full coverage, got %f", result.Sentences[0].Coverage)
	}
	var sawFiller bool
	for _, w := range result.Words {
		if w.Op == OpSub {
			t.Fatalf("expected no substitutions, equivalence should have matched, got one at book=%d asr=%d", w.BookWordIndex, w.AsrTokenIndex)
		}
		if w.Reason == reasonFiller {
			sawFiller = true
		}
	}
	if !sawFiller {
		t.Fatal("expected the \"um\" token to be tagged as a filler insertion")
	}
}
