// Package metrics tracks per-stage-run cost and timing: how long each
// external dispatch (ASR, forced alignment) took and whether it
// succeeded, attributed by chapter and stage so a studio operator can see
// where a batch run is spending time or money.
package metrics

import "time"

// StageMetric is one recorded stage run.
type StageMetric struct {
	ID         int64     `json:"id,omitempty"`
	ChapterID  string    `json:"chapter_id"`
	Stage      string    `json:"stage"`
	Provider   string    `json:"provider,omitempty"` // ASR/MFA engine name, empty for local stages
	DurationMS int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
