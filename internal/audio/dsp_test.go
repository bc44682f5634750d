package audio

import "testing"

func TestRMS_Silence(t *testing.T) {
	b := NewSilence(8000, 1, 1.0)
	if RMS(b) != 0 {
		t.Fatalf("expected 0 RMS for silence, got %f", RMS(b))
	}
}

func TestRMS_ConstantSignal(t *testing.T) {
	b := Buffer{SampleRate: 8000, Samples: [][]float32{{0.5, 0.5, 0.5, 0.5}}}
	if got := RMS(b); got < 0.499 || got > 0.501 {
		t.Fatalf("expected RMS ~0.5, got %f", got)
	}
}

func TestCrossfade_PreservesTotalDurationMinusOverlap(t *testing.T) {
	a := Buffer{SampleRate: 100, Samples: [][]float32{make([]float32, 100)}}
	b := Buffer{SampleRate: 100, Samples: [][]float32{make([]float32, 100)}}
	out := Crossfade(a, b, 0.5) // 50 frames overlap
	if out.Frames() != 150 {
		t.Fatalf("expected 150 frames (100+100-50), got %d", out.Frames())
	}
}

func TestCrossfade_ZeroDurationGapIsNoOp(t *testing.T) {
	a := Buffer{SampleRate: 100, Samples: [][]float32{{1, 1, 1}}}
	b := Buffer{SampleRate: 100, Samples: [][]float32{{2, 2, 2}}}
	out := Crossfade(a, b, 0)
	if out.Frames() != 6 {
		t.Fatalf("expected straight concatenation of 6 frames, got %d", out.Frames())
	}
	if out.Samples[0][2] != 1 || out.Samples[0][3] != 2 {
		t.Fatalf("expected no blending across the boundary, got %+v", out.Samples[0])
	}
}

func TestLoop_RepeatsSourceToFillTarget(t *testing.T) {
	src := Buffer{SampleRate: 10, Samples: [][]float32{{1, 2}}}
	out := Loop(src, 0.5) // 5 frames at 10Hz
	want := []float32{1, 2, 1, 2, 1}
	for i, w := range want {
		if out.Samples[0][i] != w {
			t.Fatalf("frame %d: got %f want %f", i, out.Samples[0][i], w)
		}
	}
}
