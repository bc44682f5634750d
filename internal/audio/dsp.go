package audio

import "math"

// RMS returns the root-mean-square level across all channels of b, in
// linear amplitude (not dB). An empty buffer has RMS 0.
func RMS(b Buffer) float64 {
	var sumSq float64
	var n int
	for _, ch := range b.Samples {
		for _, s := range ch {
			sumSq += float64(s) * float64(s)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(n))
}

// RMSDb converts a linear RMS value to dBFS. Silence (rms == 0) maps to
// math.Inf(-1).
func RMSDb(rms float64) float64 {
	if rms <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}

// Crossfade linearly cross-fades the tail of a into the head of b over
// fadeSec seconds and returns the concatenated result. If either buffer is
// shorter than fadeSec, the fade is clamped to the shorter buffer's length.
// Buffers must share sample rate and channel count.
func Crossfade(a, b Buffer, fadeSec float64) Buffer {
	fadeFrames := secToFrame(a.SampleRate, fadeSec)
	if fadeFrames > a.Frames() {
		fadeFrames = a.Frames()
	}
	if fadeFrames > b.Frames() {
		fadeFrames = b.Frames()
	}
	if fadeFrames < 0 {
		fadeFrames = 0
	}

	totalFrames := a.Frames() + b.Frames() - fadeFrames
	out := Buffer{SampleRate: a.SampleRate, Samples: make([][]float32, a.Channels())}
	for c := 0; c < a.Channels(); c++ {
		out.Samples[c] = make([]float32, totalFrames)
		// a's non-overlapping head
		copy(out.Samples[c], a.Samples[c][:a.Frames()-fadeFrames])
		// crossfaded region
		for i := 0; i < fadeFrames; i++ {
			t := float32(i) / float32(fadeFrames)
			av := a.Samples[c][a.Frames()-fadeFrames+i]
			bv := b.Samples[c][i]
			out.Samples[c][a.Frames()-fadeFrames+i] = av*(1-t) + bv*t
		}
		// b's non-overlapping tail
		copy(out.Samples[c][a.Frames():], b.Samples[c][fadeFrames:])
	}
	return out
}

// Loop repeats (or truncates) src to exactly targetDurationSec, looping
// from the start when it runs out. A zero-length src returns silence of
// the target duration.
func Loop(src Buffer, targetDurationSec float64) Buffer {
	targetFrames := secToFrame(src.SampleRate, targetDurationSec)
	if targetFrames < 0 {
		targetFrames = 0
	}
	out := Buffer{SampleRate: src.SampleRate, Samples: make([][]float32, src.Channels())}
	srcFrames := src.Frames()
	for c := 0; c < src.Channels(); c++ {
		ch := make([]float32, targetFrames)
		if srcFrames > 0 {
			for i := range ch {
				ch[i] = src.Samples[c][i%srcFrames]
			}
		}
		out.Samples[c] = ch
	}
	return out
}
