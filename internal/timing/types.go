// Package timing implements the Timing Merger: it parses a
// forced aligner's Praat TextGrid output and uses it to replace the ASR-
// derived word timings in a HydratedTranscript with the more precise
// forced-alignment timings, recomputing sentence/paragraph/section spans
// from the corrected word timings.
package timing

// Interval is one labeled span on a TextGrid tier.
type Interval struct {
	XMin float64
	XMax float64
	Text string
}

// Tier is one named track of intervals (conventionally "words" and
// "phones" for a word-level forced aligner).
type Tier struct {
	Name      string
	XMin      float64
	XMax      float64
	Intervals []Interval
}

// TextGrid is the parsed result of one Praat long-format .TextGrid file.
type TextGrid struct {
	XMin  float64
	XMax  float64
	Tiers []Tier
}

// WordsTier returns the first tier named "words" (case-insensitive), which
// is the convention forced aligners (MFA, Gentle) use for word-level
// timing. Returns nil if no such tier exists.
func (g TextGrid) WordsTier() *Tier {
	for i := range g.Tiers {
		if equalFold(g.Tiers[i].Name, "words") {
			return &g.Tiers[i]
		}
	}
	return nil
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
