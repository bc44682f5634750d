package roomtone

import (
	"testing"

	"github.com/jackzampolin/audiobook-master/internal/audio"
	"github.com/jackzampolin/audiobook-master/internal/prosody"
)

func flatBuffer(sampleRate int, durationSec float64, amplitude float32) audio.Buffer {
	n := int(durationSec * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = amplitude
	}
	return audio.Buffer{SampleRate: sampleRate, Samples: [][]float32{samples}}
}

func TestTreat_ZeroDurationGapIsNoOp(t *testing.T) {
	narration := flatBuffer(1000, 1.0, 0.2)
	pauses := []prosody.PauseSpan{{StartSec: 0.5, EndSec: 0.5, Class: prosody.ClassTail}}
	out, plans := Treat(narration, pauses, flatBuffer(1000, 1.0, 0), DefaultParams())

	if plans[0].Action != ActionUntouched {
		t.Fatalf("expected zero-duration gap to be untouched, got %v", plans[0].Action)
	}
	if out.Frames() != narration.Frames() {
		t.Fatalf("expected buffer length unchanged, got %d want %d", out.Frames(), narration.Frames())
	}
}

func TestTreat_SilentGapGetsReplacedWithSeed(t *testing.T) {
	sampleRate := 1000
	// loud - silence - loud, silence gap is 1 second.
	loud := flatBuffer(sampleRate, 0.5, 0.5)
	silence := flatBuffer(sampleRate, 1.0, 0.0)
	narration := audio.Buffer{SampleRate: sampleRate, Samples: [][]float32{
		append(append(append([]float32{}, loud.Samples[0]...), silence.Samples[0]...), loud.Samples[0]...),
	}}
	pauses := []prosody.PauseSpan{{StartSec: 0.5, EndSec: 1.5, Class: prosody.ClassSentence}}
	seed := flatBuffer(sampleRate, 0.2, 0.01)

	out, plans := Treat(narration, pauses, seed, DefaultParams())
	if plans[0].Action != ActionTreated {
		t.Fatalf("expected silent gap to be treated, got %v", plans[0].Action)
	}
	if out.Frames() == 0 {
		t.Fatal("expected non-empty output buffer")
	}
}

func TestTreat_ShortGapBelowMinimumUntouched(t *testing.T) {
	narration := flatBuffer(1000, 1.0, 0.1)
	pauses := []prosody.PauseSpan{{StartSec: 0.5, EndSec: 0.51, Class: prosody.ClassComma}}
	_, plans := Treat(narration, pauses, flatBuffer(1000, 0.1, 0), DefaultParams())
	if plans[0].Action != ActionUntouched {
		t.Fatalf("expected gap under minimum to be untouched, got %v", plans[0].Action)
	}
}
