package bookdoc

import "testing"

func TestPlaintextParser_SplitsOnBlankLines(t *testing.T) {
	src := "First paragraph\nstill first.\n\nSecond paragraph.\n"
	got, err := PlaintextParser{}.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d paragraphs, want 2: %+v", len(got), got)
	}
	if got[0].Text != "First paragraph still first." {
		t.Errorf("unexpected first paragraph: %q", got[0].Text)
	}
	if got[1].Text != "Second paragraph." {
		t.Errorf("unexpected second paragraph: %q", got[1].Text)
	}
}

func TestPlaintextParser_MarkdownHeadingDetected(t *testing.T) {
	src := "# Chapter One\n\nThe story begins.\n"
	got, err := PlaintextParser{}.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(got))
	}
	if !got[0].Heading || got[0].HeadingLevel != 1 || got[0].Text != "Chapter One" {
		t.Errorf("unexpected heading paragraph: %+v", got[0])
	}
}

func TestPlaintextParser_CanParse(t *testing.T) {
	p := PlaintextParser{}
	if !p.CanParse(".txt") || !p.CanParse(".MD") {
		t.Error("expected .txt and .MD supported")
	}
	if p.CanParse(".pdf") {
		t.Error("did not expect .pdf supported")
	}
}
