// Package hydrate assembles a HydratedTranscript from a book
// index and the windowed aligner's output: every book word gets a best-
// effort timing (from its matched/substituted ASR token, or interpolated
// across a gap of deleted words), so every downstream stage can work off
// one self-contained, per-word timeline instead of re-joining the book
// index and the alignment every time.
package hydrate

// TimeSource records where a word's timing came from, so the timing
// merger (which replaces ASR-sourced timings with forced-alignment
// timings where available) can tell which words it still needs to visit.
type TimeSource string

const (
	SourceASR           TimeSource = "asr"
	SourceInterpolated  TimeSource = "interpolated"
	SourceForcedAligned TimeSource = "forced_aligned"
	SourceMissing       TimeSource = "missing"
)

// HydratedWord is one book word with its best-available timing.
type HydratedWord struct {
	BookWordIndex int        `json:"book_word_index"`
	Text          string     `json:"text"`
	StartSec      float64    `json:"start_sec"`
	EndSec        float64    `json:"end_sec"`
	Source        TimeSource `json:"source"`
}

// HydratedSentence carries the sentence's own [start,end] span, derived
// from its first and last timed word.
type HydratedSentence struct {
	SentenceID int     `json:"sentence_id"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
}

// HydratedParagraph mirrors HydratedSentence at the paragraph level.
type HydratedParagraph struct {
	ParagraphID int     `json:"paragraph_id"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
}

// HydratedSection mirrors HydratedSentence at the section level.
type HydratedSection struct {
	SectionID int     `json:"section_id"`
	StartSec  float64 `json:"start_sec"`
	EndSec    float64 `json:"end_sec"`
}

// HydratedTranscript is the full per-chapter timeline.
type HydratedTranscript struct {
	ChapterID  string              `json:"chapter_id"`
	Words      []HydratedWord      `json:"words"`
	Sentences  []HydratedSentence  `json:"sentences"`
	Paragraphs []HydratedParagraph `json:"paragraphs"`
	Sections   []HydratedSection   `json:"sections"`
}
