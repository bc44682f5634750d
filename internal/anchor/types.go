// Package anchor implements the Anchor Engine: it finds
// reliable book-word/ASR-token correspondences using n-gram matching, then
// enforces monotonic ordering with a longest-increasing-subsequence pass,
// and finally carves the space between anchors into AnchorWindows for the
// windowed aligner (internal/align).
package anchor

// Anchor is one high-confidence book-word/ASR-token correspondence.
type Anchor struct {
	ID            int `json:"id"`
	BookWordIndex int `json:"book_word_index"`
	AsrTokenIndex int `json:"asr_token_index"`
	Length        int `json:"length"` // n-gram length that produced this anchor
}

// AnchorWindow is the inclusive span of book words and ASR tokens that lies
// between two consecutive anchors (or the start/end of the chapter for the
// first/last window). StartAnchor/EndAnchor are nil at the chapter
// boundaries.
type AnchorWindow struct {
	ID          int      `json:"id"`
	BookStart   int      `json:"book_start"`
	BookEnd     int      `json:"book_end"`
	AsrStart    int      `json:"asr_start"`
	AsrEnd      int      `json:"asr_end"`
	StartAnchor *Anchor  `json:"start_anchor,omitempty"`
	EndAnchor   *Anchor  `json:"end_anchor,omitempty"`
}

// Params configures anchor finding.
type Params struct {
	// MinNgram/MaxNgram bound the n-gram lengths tried, longest first so a
	// long unique match is preferred over an overlapping shorter one.
	MinNgram int
	MaxNgram int
	// Stopwords, when non-empty, are excluded from candidate n-grams (but
	// not from the filtered word stream itself) so that e.g. "the the the"
	// runs do not manufacture false anchors. Matched case-insensitively.
	Stopwords map[string]bool
	// AllowRelaxedMatching is carried into the anchors stage fingerprint.
	// Find does not read it: both streams are always normalized (lowercased,
	// edge punctuation stripped) before matching, whatever its value, and
	// the LIS pass never consults it.
	AllowRelaxedMatching bool
	// AllowDuplicates, when true, lets an n-gram that recurs on one or
	// both sides still produce candidates (paired in document order)
	// instead of requiring an exact one-occurrence match. Only engaged
	// when the exact-match pass falls short of TargetPerTokens density.
	AllowDuplicates bool
	// MinSeparation is the minimum book-token gap required between two
	// accepted duplicate-sourced candidates of the same n-gram key.
	// Ignored when AllowDuplicates is false.
	MinSeparation int
	// AllowBoundaryCross, when false (the default), rejects a
	// duplicate-sourced candidate whose n-gram spans more than one book
	// sentence.
	AllowBoundaryCross bool
	// TargetPerTokens is the desired anchor density: roughly one anchor
	// per this many book tokens. The exact-match pass is topped up with
	// duplicate-sourced candidates only if it falls short of
	// len(bookWords)/TargetPerTokens anchors. Zero disables the density
	// check (duplicates, if allowed, always run).
	TargetPerTokens int
}

// DefaultParams returns sensible default n-gram range (4 down to 2).
func DefaultParams() Params {
	return Params{MinNgram: 2, MaxNgram: 4, AllowRelaxedMatching: true}
}
