package anchor

import "strings"

// candidate is a tentative anchor before monotonicity is enforced.
type candidate struct {
	bookIndex int
	asrIndex  int
	length    int
}

// ngramKey joins the normalized words of a run with a separator unlikely to
// appear in any single token, so equal joined strings mean equal n-grams.
func ngramKey(words []string, start, n int) (string, bool) {
	if start+n > len(words) {
		return "", false
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		w := words[start+i]
		if w == "" {
			return "", false
		}
		if i > 0 {
			b.WriteByte('\x00')
		}
		b.WriteString(w)
	}
	return b.String(), true
}

// findCandidates generates n-gram matches between bookWords and asrWords
// (already normalized, one entry per position, "" for filtered
// stopwords) trying lengths from params.MaxNgram down to params.MinNgram.
// At each length, n-grams that occur EXACTLY ONCE on both sides are kept
// as candidates; positions already claimed by a longer match are skipped
// so overlapping shorter matches never override it. If the exact-match
// pass falls short of the density target and params.AllowDuplicates is
// set, a second pass pairs up recurring n-grams in document order,
// subject to MinSeparation and sentence-boundary constraints.
func findCandidates(bookWords, asrWords []string, bookSentence []int, params Params) []candidate {
	claimedBook := make([]bool, len(bookWords))
	claimedAsr := make([]bool, len(asrWords))
	var out []candidate

	minN := params.MinNgram
	maxN := params.MaxNgram
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	bookPosByN := make(map[int]map[string][]int, maxN-minN+1)
	asrPosByN := make(map[int]map[string][]int, maxN-minN+1)

	for n := maxN; n >= minN; n-- {
		bookPositions := map[string][]int{}
		for i := range bookWords {
			if claimedBook[i] {
				continue
			}
			if key, ok := ngramKey(bookWords, i, n); ok {
				bookPositions[key] = append(bookPositions[key], i)
			}
		}
		asrPositions := map[string][]int{}
		for i := range asrWords {
			if claimedAsr[i] {
				continue
			}
			if key, ok := ngramKey(asrWords, i, n); ok {
				asrPositions[key] = append(asrPositions[key], i)
			}
		}
		bookPosByN[n] = bookPositions
		asrPosByN[n] = asrPositions

		for key, bpos := range bookPositions {
			if len(bpos) != 1 {
				continue
			}
			apos, ok := asrPositions[key]
			if !ok || len(apos) != 1 {
				continue
			}
			bi, ai := bpos[0], apos[0]
			out = append(out, candidate{bookIndex: bi, asrIndex: ai, length: n})
			for k := 0; k < n; k++ {
				claimedBook[bi+k] = true
				claimedAsr[ai+k] = true
			}
		}
	}

	if !params.AllowDuplicates {
		return out
	}
	if params.TargetPerTokens > 0 && len(bookWords) > 0 {
		target := len(bookWords) / params.TargetPerTokens
		if len(out) >= target {
			return out
		}
	}

	lastAccepted := map[string]int{} // ngram key -> last accepted book index
	for n := maxN; n >= minN; n-- {
		bookPositions := bookPosByN[n]
		asrPositions := asrPosByN[n]
		for key, bpos := range bookPositions {
			apos, ok := asrPositions[key]
			if !ok || len(bpos) == 0 || len(apos) == 0 {
				continue
			}
			pairs := len(bpos)
			if len(apos) < pairs {
				pairs = len(apos)
			}
			for p := 0; p < pairs; p++ {
				bi, ai := bpos[p], apos[p]
				if claimedBook[bi] || claimedAsr[ai] {
					continue
				}
				if last, seen := lastAccepted[key]; seen && bi-last < params.MinSeparation {
					continue
				}
				if !params.AllowBoundaryCross && bookSentence != nil && crossesSentence(bookSentence, bi, n) {
					continue
				}
				out = append(out, candidate{bookIndex: bi, asrIndex: ai, length: n})
				lastAccepted[key] = bi
				for k := 0; k < n; k++ {
					claimedBook[bi+k] = true
					claimedAsr[ai+k] = true
				}
			}
		}
	}
	return out
}

// crossesSentence reports whether the n-gram starting at bookIndex spans
// more than one book sentence.
func crossesSentence(bookSentence []int, bookIndex, n int) bool {
	if bookIndex+n > len(bookSentence) {
		return false
	}
	first := bookSentence[bookIndex]
	for i := 1; i < n; i++ {
		if bookSentence[bookIndex+i] != first {
			return true
		}
	}
	return false
}
