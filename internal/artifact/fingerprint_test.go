package artifact

import "testing"

func TestComputeFingerprint_DeterministicRegardlessOfMapOrder(t *testing.T) {
	a := ComputeFingerprint([]string{"in1", "in2"}, map[string]string{"x": "1", "y": "2"}, map[string]string{"asr": "1.0"})
	b := ComputeFingerprint([]string{"in1", "in2"}, map[string]string{"y": "2", "x": "1"}, map[string]string{"asr": "1.0"})
	if a != b {
		t.Fatalf("expected identical fingerprints regardless of map insertion order, got %s vs %s", a, b)
	}
}

func TestComputeFingerprint_DiffersOnInputOrder(t *testing.T) {
	a := ComputeFingerprint([]string{"in1", "in2"}, nil, nil)
	b := ComputeFingerprint([]string{"in2", "in1"}, nil, nil)
	if a == b {
		t.Fatal("expected input order to affect the fingerprint (inputs are not a set)")
	}
}

func TestComputeFingerprint_DiffersOnParamChange(t *testing.T) {
	a := ComputeFingerprint(nil, map[string]string{"lookahead": "3"}, nil)
	b := ComputeFingerprint(nil, map[string]string{"lookahead": "4"}, nil)
	if a == b {
		t.Fatal("expected different params to produce different fingerprints")
	}
}
