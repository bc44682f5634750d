package anchor

import (
	"testing"

	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

func words(texts ...string) []bookidx.BookWord {
	out := make([]bookidx.BookWord, len(texts))
	for i, s := range texts {
		out[i] = bookidx.BookWord{Text: s, WordIndex: i}
	}
	return out
}

func tokens(texts ...string) []asr.AsrToken {
	out := make([]asr.AsrToken, len(texts))
	for i, s := range texts {
		out[i] = asr.AsrToken{Text: s}
	}
	return out
}

func TestFind_ExactMatchProducesAnchorsAndBoundaryWindows(t *testing.T) {
	bw := words("the", "quick", "brown", "fox", "jumps")
	at := tokens("the", "quick", "brown", "fox", "jumps")
	anchors, windows := Find(bw, at, DefaultParams())
	if len(anchors) == 0 {
		t.Fatal("expected at least one anchor for identical streams")
	}
	// leading + trailing window always present even if empty.
	if len(windows) < 2 {
		t.Fatalf("expected at least leading and trailing windows, got %d", len(windows))
	}
}

func TestFind_InsertedAsrWordShiftsWindow(t *testing.T) {
	bw := words("alpha", "bravo", "charlie", "delta")
	at := tokens("alpha", "bravo", "um", "charlie", "delta")
	anchors, windows := Find(bw, at, DefaultParams())
	if len(anchors) == 0 {
		t.Fatal("expected anchors to survive an inserted filler word")
	}
	foundGap := false
	for _, w := range windows {
		if w.AsrEnd >= w.AsrStart {
			foundGap = true
		}
	}
	if !foundGap {
		t.Fatal("expected a non-empty window covering the inserted word")
	}
}

func TestFind_NoMatchesStillReturnsSingleTrailingWindow(t *testing.T) {
	bw := words("zzz1", "zzz2")
	at := tokens("yyy1", "yyy2")
	anchors, windows := Find(bw, at, DefaultParams())
	if len(anchors) != 0 {
		t.Fatalf("expected no anchors, got %d", len(anchors))
	}
	if len(windows) != 1 {
		t.Fatalf("expected exactly one (whole-chapter) window, got %d", len(windows))
	}
	if windows[0].BookStart != 0 || windows[0].BookEnd != 1 {
		t.Fatalf("expected window covering both book words, got %+v", windows[0])
	}
}
