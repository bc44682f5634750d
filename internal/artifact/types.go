// Package artifact implements the artifact and fingerprint store:
// per-chapter manifests recording each stage's completion status
// and content fingerprint, atomic artifact writes, and a cross-chapter
// SQLite status index the CLI's `status` command queries without
// opening every chapter's manifest individually.
package artifact

import "time"

// Stage names the pipeline stages in their required execution order.
type Stage string

const (
	StageBookIndex Stage = "book_index"
	StageAsr       Stage = "asr"
	StageAnchors   Stage = "anchors"
	StageTranscript Stage = "transcript"
	StageHydrate   Stage = "hydrate"
	StageMfa       Stage = "mfa"
	StageTreatment Stage = "treatment"
	StageExport    Stage = "export"
)

// Order is the strict stage dependency order the runner executes in.
var Order = []Stage{StageBookIndex, StageAsr, StageAnchors, StageTranscript, StageHydrate, StageMfa, StageTreatment, StageExport}

// RunStatus is a stage's lifecycle state within one chapter's manifest.
type RunStatus string

const (
	RunPending RunStatus = "pending"
	RunRunning RunStatus = "running"
	RunComplete RunStatus = "complete"
	RunFailed  RunStatus = "failed"
)

// StageRecord is one stage's entry in a chapter's Manifest.
type StageRecord struct {
	Stage       Stage     `json:"stage"`
	Status      RunStatus `json:"status"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	Error       string    `json:"error,omitempty"`
	ErrorKind   string    `json:"error_kind,omitempty"`
}

// Manifest is the full per-chapter record of stage progress.
type Manifest struct {
	ChapterID string                 `json:"chapter_id"`
	Stages    map[Stage]*StageRecord `json:"stages"`
}

// StageStatus returns the record for stage, creating a Pending one if
// absent.
func (m *Manifest) StageStatus(stage Stage) *StageRecord {
	if m.Stages == nil {
		m.Stages = map[Stage]*StageRecord{}
	}
	r, ok := m.Stages[stage]
	if !ok {
		r = &StageRecord{Stage: stage, Status: RunPending}
		m.Stages[stage] = r
	}
	return r
}

// NewManifest returns an empty manifest for chapterID with every stage
// Pending.
func NewManifest(chapterID string) *Manifest {
	m := &Manifest{ChapterID: chapterID, Stages: map[Stage]*StageRecord{}}
	for _, s := range Order {
		m.Stages[s] = &StageRecord{Stage: s, Status: RunPending}
	}
	return m
}
