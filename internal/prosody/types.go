// Package prosody implements the Prosody/Pause Analyzer: it
// walks a chapter's hydrated word timeline, finds the silent gaps between
// consecutive words, and classifies each by the structural boundary it
// falls on (sentence, paragraph, chapter head, end-of-chapter tail, or a
// plain mid-sentence comma breath).
package prosody

// Class is the structural role of a detected pause.
type Class string

const (
	ClassComma            Class = "comma"
	ClassSentence         Class = "sentence"
	ClassParagraph        Class = "paragraph"
	ClassChapterHead       Class = "chapter_head"
	ClassPostChapterRead   Class = "post_chapter_read"
	ClassTail              Class = "tail"
	ClassOther             Class = "other"
)

// PauseSpan is one detected silence in the narration.
type PauseSpan struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Class    Class   `json:"class"`
}

// Duration returns the pause's length in seconds.
func (p PauseSpan) Duration() float64 { return p.EndSec - p.StartSec }

// ClassSummary aggregates pause statistics for one class.
type ClassSummary struct {
	Class      Class   `json:"class"`
	Count      int     `json:"count"`
	TotalSec   float64 `json:"total_sec"`
	MeanSec    float64 `json:"mean_sec"`
	MinSec     float64 `json:"min_sec"`
	MaxSec     float64 `json:"max_sec"`
}

// Params tunes the minimum gap length that counts as a pause at all, so
// natural co-articulation between adjacent words is never misclassified
// as a comma breath.
type Params struct {
	MinPauseSec float64
}

// DefaultParams returns sensible default minimum pause length.
func DefaultParams() Params {
	return Params{MinPauseSec: 0.08}
}
