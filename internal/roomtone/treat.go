package roomtone

import (
	"sort"

	"github.com/jackzampolin/audiobook-master/internal/audio"
	"github.com/jackzampolin/audiobook-master/internal/prosody"
)

// Treat applies the roomtone treatment to every pause in pauses, probing
// inward from each pause's edges to find its true silent interior, then
// replacing that interior with a crossfaded loop of seed. Pauses are
// processed in descending start-time order so earlier splice points are
// unaffected by edits made to later ones.
func Treat(narration audio.Buffer, pauses []prosody.PauseSpan, seed audio.Buffer, params Params) (audio.Buffer, []Plan) {
	if params.MinTreatableGapSec <= 0 {
		params = DefaultParams()
	}

	ordered := append([]prosody.PauseSpan(nil), pauses...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartSec > ordered[j].StartSec })

	out := narration
	plans := make([]Plan, 0, len(pauses))

	for _, p := range ordered {
		plan := Plan{PauseStartSec: p.StartSec, PauseEndSec: p.EndSec, Action: ActionUntouched}
		if p.Duration() < params.MinTreatableGapSec {
			plans = append(plans, plan)
			continue
		}

		probedStart := probeInward(out, p.StartSec, p.EndSec, params, true)
		probedEnd := probeInward(out, p.StartSec, p.EndSec, params, false)
		plan.ProbedStartSec = probedStart
		plan.ProbedEndSec = probedEnd

		if probedEnd-probedStart < params.MinTreatableGapSec {
			plans = append(plans, plan)
			continue
		}

		out = spliceRoomtone(out, probedStart, probedEnd, seed, params)
		plan.Action = ActionTreated
		plans = append(plans, plan)
	}

	// Return plans in original (ascending) pause order for stable output.
	sort.Slice(plans, func(i, j int) bool { return plans[i].PauseStartSec < plans[j].PauseStartSec })
	return out, plans
}

// probeInward walks from one edge of [start,end) toward the center in
// ProbeStepSec increments, returning the first boundary (measured from
// that edge) where the window's RMS drops below the silence threshold.
// fromStart probes forward from `start`; otherwise it probes backward from
// `end`. If no window is ever quiet enough, it returns the opposite bound
// (i.e. the probe concludes the whole gap is noisy and nothing should be
// replaced).
func probeInward(buf audio.Buffer, start, end float64, params Params, fromStart bool) float64 {
	step := params.ProbeStepSec
	if fromStart {
		for t := start; t+step <= end; t += step {
			window := buf.Slice(t, t+step)
			if audio.RMSDb(audio.RMS(window)) <= params.SilenceThresholdDb {
				return t
			}
		}
		return end
	}
	for t := end; t-step >= start; t -= step {
		window := buf.Slice(t-step, t)
		if audio.RMSDb(audio.RMS(window)) <= params.SilenceThresholdDb {
			return t
		}
	}
	return start
}

// spliceRoomtone replaces buf's [start,end) interval with a seed loop of
// the same length, crossfaded at both edges so the splice is inaudible.
func spliceRoomtone(buf audio.Buffer, start, end float64, seed audio.Buffer, params Params) audio.Buffer {
	head := buf.Slice(0, start)
	tail := buf.Slice(end, buf.DurationSec())
	loopDur := end - start
	looped := audio.Loop(seed, loopDur)

	withHead := audio.Crossfade(head, looped, params.CrossfadeSec)
	return audio.Crossfade(withHead, tail, params.CrossfadeSec)
}
