package audio

import "testing"

func TestEncodeDecodeWAV_RoundTrip(t *testing.T) {
	orig := Buffer{SampleRate: 8000, Samples: [][]float32{
		{0, 0.5, -0.5, 0.25},
	}}
	encoded, err := EncodeWAV(orig)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	decoded, err := DecodeWAV(encoded)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if decoded.SampleRate != 8000 || decoded.Channels() != 1 || decoded.Frames() != 4 {
		t.Fatalf("unexpected shape: %+v", decoded)
	}
	for i, want := range []float32{0, 0.5, -0.5, 0.25} {
		got := decoded.Samples[0][i]
		diff := got - want
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.001 {
			t.Fatalf("sample %d: got %f want %f", i, got, want)
		}
	}
}

func TestDecodeWAV_RejectsNonRIFF(t *testing.T) {
	if _, err := DecodeWAV([]byte("not a wav file at all")); err == nil {
		t.Fatal("expected error for non-RIFF input")
	}
}
