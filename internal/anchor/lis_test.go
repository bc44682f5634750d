package anchor

import "testing"

func TestLIS_DropsCrossedCandidate(t *testing.T) {
	// book order 0,1,2 maps to asr order 0,5,2 -- the middle candidate
	// crosses the third, so the LIS must drop one of them, keeping the
	// other two strictly increasing in both indices.
	cands := []candidate{
		{bookIndex: 0, asrIndex: 0, length: 3},
		{bookIndex: 1, asrIndex: 5, length: 3},
		{bookIndex: 2, asrIndex: 2, length: 3},
	}
	result := longestIncreasingByAsr(cands)
	if len(result) != 2 {
		t.Fatalf("expected LIS of length 2, got %d: %+v", len(result), result)
	}
	for i := 1; i < len(result); i++ {
		if result[i].bookIndex <= result[i-1].bookIndex || result[i].asrIndex <= result[i-1].asrIndex {
			t.Fatalf("LIS result not strictly increasing: %+v", result)
		}
	}
}

func TestLIS_AlreadyMonotonicKeepsAll(t *testing.T) {
	cands := []candidate{
		{bookIndex: 0, asrIndex: 0, length: 2},
		{bookIndex: 3, asrIndex: 4, length: 2},
		{bookIndex: 6, asrIndex: 9, length: 2},
	}
	result := longestIncreasingByAsr(cands)
	if len(result) != 3 {
		t.Fatalf("expected all 3 candidates kept, got %d", len(result))
	}
}

func TestLIS_Empty(t *testing.T) {
	if got := longestIncreasingByAsr(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
}

func TestLIS_PinsExactSubsequenceOnTie(t *testing.T) {
	// (3,3) and (5,2) both chain onto (1,1) at length 2, and (4,7) can
	// extend either (2,5) or (3,3) to length 3. The earliest-predecessor
	// tie-break must pick (1,1) -> (2,5) -> (4,7), not (1,1) -> (3,3) -> (4,7).
	cands := []candidate{
		{bookIndex: 1, asrIndex: 1, length: 1},
		{bookIndex: 2, asrIndex: 5, length: 1},
		{bookIndex: 3, asrIndex: 3, length: 1},
		{bookIndex: 4, asrIndex: 7, length: 1},
		{bookIndex: 5, asrIndex: 2, length: 1},
	}
	result := longestIncreasingByAsr(cands)
	want := []candidate{
		{bookIndex: 1, asrIndex: 1, length: 1},
		{bookIndex: 2, asrIndex: 5, length: 1},
		{bookIndex: 4, asrIndex: 7, length: 1},
	}
	if len(result) != len(want) {
		t.Fatalf("expected %d candidates, got %d: %+v", len(want), len(result), result)
	}
	for i := range want {
		if result[i].bookIndex != want[i].bookIndex || result[i].asrIndex != want[i].asrIndex {
			t.Fatalf("at %d: expected %+v, got %+v", i, want[i], result[i])
		}
	}
}
