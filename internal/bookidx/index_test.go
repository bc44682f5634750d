package bookidx

import "testing"

func TestIndex_BasicSentencesAndParagraphs(t *testing.T) {
	paras := []Paragraph{
		{Text: "Chapter 1", Heading: true},
		{Text: "The dog ran. The cat sat."},
		{Text: "A new paragraph here."},
	}
	idx, err := Index("book.txt", []byte("source"), paras, Params{Title: "Test Book"})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	if idx.Totals.Words != 10 {
		t.Fatalf("expected 10 words, got %d: %+v", idx.Totals.Words, idx.Words)
	}
	if idx.Totals.Sentences != 3 {
		t.Fatalf("expected 3 sentences, got %d", idx.Totals.Sentences)
	}
	if idx.Totals.Paragraphs != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", idx.Totals.Paragraphs)
	}
	if idx.Totals.Sections != 1 {
		t.Fatalf("expected 1 section, got %d", idx.Totals.Sections)
	}
	if idx.Sections[0].Title != "Chapter 1" {
		t.Fatalf("expected section titled 'Chapter 1', got %q", idx.Sections[0].Title)
	}
	if idx.SourceFileHash == "" {
		t.Fatal("expected non-empty source hash")
	}
}

func TestIndex_DuplicateSectionTitlesDisambiguated(t *testing.T) {
	paras := []Paragraph{
		{Text: "Notes", Heading: true},
		{Text: "First."},
		{Text: "Notes", Heading: true},
		{Text: "Second."},
	}
	idx, err := Index("book.txt", nil, paras, Params{})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if idx.Sections[0].Title != "Notes (A)" || idx.Sections[1].Title != "Notes (B)" {
		t.Fatalf("expected disambiguated titles, got %q / %q", idx.Sections[0].Title, idx.Sections[1].Title)
	}
}

func TestIndex_PunctuationOnlyTokenNotAWord(t *testing.T) {
	paras := []Paragraph{{Text: "Wait -- really?"}}
	idx, err := Index("book.txt", nil, paras, Params{})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if idx.Totals.Words != 2 {
		t.Fatalf("expected 2 words (Wait, really?), got %d: %+v", idx.Totals.Words, idx.Words)
	}
}

func TestIndex_TrailingQuoteStillClosesSentence(t *testing.T) {
	paras := []Paragraph{{Text: `She said "Stop!" Then left.`}}
	idx, err := Index("book.txt", nil, paras, Params{})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if idx.Totals.Sentences != 2 {
		t.Fatalf("expected 2 sentences, got %d: %+v", idx.Totals.Sentences, idx.Sentences)
	}
}

func TestIndex_EmptySourceWarns(t *testing.T) {
	idx, err := Index("book.txt", nil, nil, Params{})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(idx.BuildWarnings) == 0 {
		t.Fatal("expected a build warning for zero-word index")
	}
}

type errPronouncer struct{}

func (errPronouncer) Phonemes(word string) ([]string, error) {
	return nil, errFake
}

var errFake = errTextError("boom")

type errTextError string

func (e errTextError) Error() string { return string(e) }

func TestIndex_PronunciationProviderErrorWraps(t *testing.T) {
	paras := []Paragraph{{Text: "hello"}}
	_, err := Index("book.txt", nil, paras, Params{Pronounce: errPronouncer{}})
	if err == nil {
		t.Fatal("expected error from failing pronunciation provider")
	}
}
