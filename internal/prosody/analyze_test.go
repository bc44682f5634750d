package prosody

import (
	"testing"

	"github.com/jackzampolin/audiobook-master/internal/hydrate"
)

func TestAnalyze_ClassifiesSentenceAndParagraphGaps(t *testing.T) {
	ht := hydrate.HydratedTranscript{
		Words: []hydrate.HydratedWord{
			{Text: "One", StartSec: 0, EndSec: 0.3},
			{Text: "two,", StartSec: 0.35, EndSec: 0.6},
			{Text: "Three.", StartSec: 1.0, EndSec: 1.3},
			{Text: "Four.", StartSec: 2.0, EndSec: 2.3},
			{Text: "Five.", StartSec: 3.0, EndSec: 3.3},
		},
		Sentences: []hydrate.HydratedSentence{
			{SentenceID: 0, StartSec: 0, EndSec: 1.3},
			{SentenceID: 1, StartSec: 2.0, EndSec: 2.3},
			{SentenceID: 2, StartSec: 3.0, EndSec: 3.3},
		},
		Paragraphs: []hydrate.HydratedParagraph{
			{ParagraphID: 0, StartSec: 0, EndSec: 2.3},
			{ParagraphID: 1, StartSec: 3.0, EndSec: 3.3},
		},
	}
	spans := Analyze(ht, DefaultParams())

	var sawComma, sawSentence, sawParagraph, sawTail bool
	for _, s := range spans {
		switch s.Class {
		case ClassComma:
			sawComma = true
		case ClassSentence:
			sawSentence = true
		case ClassParagraph:
			sawParagraph = true
		case ClassTail:
			sawTail = true
		}
	}
	if !sawComma {
		t.Error("expected a comma-class gap between 'two,' and 'Three.'")
	}
	if !sawSentence {
		t.Error("expected a sentence-class gap before 'Four.'")
	}
	if !sawParagraph {
		t.Error("expected a paragraph-class gap before 'Five.'")
	}
	if !sawTail {
		t.Error("expected a trailing tail pause marker")
	}
}

func TestAnalyze_NoWordsReturnsNil(t *testing.T) {
	if got := Analyze(hydrate.HydratedTranscript{}, DefaultParams()); got != nil {
		t.Fatalf("expected nil for empty transcript, got %+v", got)
	}
}

func TestSummarize_AggregatesCounts(t *testing.T) {
	spans := []PauseSpan{
		{StartSec: 0, EndSec: 0.2, Class: ClassComma},
		{StartSec: 1, EndSec: 1.3, Class: ClassComma},
		{StartSec: 2, EndSec: 2.5, Class: ClassSentence},
	}
	summary := Summarize(spans)
	byClass := map[Class]ClassSummary{}
	for _, s := range summary {
		byClass[s.Class] = s
	}
	if byClass[ClassComma].Count != 2 {
		t.Fatalf("expected 2 comma pauses, got %d", byClass[ClassComma].Count)
	}
	if byClass[ClassComma].MeanSec <= 0 {
		t.Fatal("expected nonzero mean for comma pauses")
	}
}
