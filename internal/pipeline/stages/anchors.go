package stages

import (
	"encoding/json"
	"fmt"

	"github.com/jackzampolin/audiobook-master/internal/anchor"
	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

// anchorsArtifact is the on-disk shape written by AnchorsStage: both the
// raw anchors and the derived windows, since Transcript needs both and
// recomputing windows from anchors alone would duplicate buildWindows'
// logic outside the anchor package.
type anchorsArtifact struct {
	Anchors []anchor.Anchor       `json:"anchors"`
	Windows []anchor.AnchorWindow `json:"windows"`
}

// AnchorsStage finds high-confidence n-gram anchors between the book
// index and the ASR transcript and carves the gaps between them into
// alignment windows.
type AnchorsStage struct {
	Params anchor.Params
}

func (s *AnchorsStage) Name() string { return string(artifact.StageAnchors) }
func (s *AnchorsStage) Dependencies() []string {
	return []string{string(artifact.StageBookIndex), string(artifact.StageAsr)}
}
func (s *AnchorsStage) Description() string {
	return "finds n-gram anchors between the book index and ASR transcript"
}

func (s *AnchorsStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	index, err := loadBookIndex(env)
	if err != nil {
		return "", err
	}
	resp, err := loadAsrResponse(env)
	if err != nil {
		return "", err
	}
	params := map[string]string{
		"min_ngram":            fmt.Sprintf("%d", s.Params.MinNgram),
		"max_ngram":            fmt.Sprintf("%d", s.Params.MaxNgram),
		"allow_relaxed":        fmt.Sprintf("%t", s.Params.AllowRelaxedMatching),
		"allow_duplicates":     fmt.Sprintf("%t", s.Params.AllowDuplicates),
		"min_separation":       fmt.Sprintf("%d", s.Params.MinSeparation),
		"allow_boundary_cross": fmt.Sprintf("%t", s.Params.AllowBoundaryCross),
		"target_per_tokens":    fmt.Sprintf("%d", s.Params.TargetPerTokens),
	}
	return artifact.ComputeFingerprint([]string{index.SourceFileHash, resp.ChapterID}, params, nil), nil
}

func (s *AnchorsStage) Run(env *pipeline.ChapterEnv) error {
	index, err := loadBookIndex(env)
	if err != nil {
		return err
	}
	resp, err := loadAsrResponse(env)
	if err != nil {
		return err
	}

	anchors, windows := anchor.Find(index.Words, resp.Tokens, s.Params)

	data, err := json.Marshal(anchorsArtifact{Anchors: anchors, Windows: windows})
	if err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}
	return env.Store.WriteArtifact(env.ChapterID, artifact.StageAnchors, "anchors.json", data)
}

func loadAnchors(env *pipeline.ChapterEnv) ([]anchor.Anchor, []anchor.AnchorWindow, error) {
	data, err := env.Store.ReadArtifact(env.ChapterID, artifact.StageAnchors, "anchors.json")
	if err != nil {
		return nil, nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageAnchors), err)
	}
	var out anchorsArtifact
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageAnchors), err)
	}
	return out.Anchors, out.Windows, nil
}
