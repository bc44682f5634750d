package stages

import (
	"encoding/json"
	"strconv"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/hydrate"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

// HydrateStage assembles the HydratedTranscript: ASR-timed book words
// with interior gaps linearly interpolated, rolled up per sentence,
// paragraph, and section.
type HydrateStage struct{}

func (s *HydrateStage) Name() string { return string(artifact.StageHydrate) }
func (s *HydrateStage) Dependencies() []string {
	return []string{string(artifact.StageTranscript)}
}
func (s *HydrateStage) Description() string {
	return "builds the hydrated transcript from book index and alignment"
}

func (s *HydrateStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	index, err := loadBookIndex(env)
	if err != nil {
		return "", err
	}
	result, err := loadAlignResult(env)
	if err != nil {
		return "", err
	}
	return artifact.ComputeFingerprint([]string{index.SourceFileHash, env.ChapterID}, nil, map[string]string{
		"words": strconv.Itoa(len(result.Words)),
	}), nil
}

func (s *HydrateStage) Run(env *pipeline.ChapterEnv) error {
	index, err := loadBookIndex(env)
	if err != nil {
		return err
	}
	result, err := loadAlignResult(env)
	if err != nil {
		return err
	}

	ht := hydrate.Build(env.ChapterID, *index, *result)

	data, err := json.Marshal(ht)
	if err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}
	return env.Store.WriteArtifact(env.ChapterID, artifact.StageHydrate, "hydrate.json", data)
}

func loadHydratedTranscript(env *pipeline.ChapterEnv) (*hydrate.HydratedTranscript, error) {
	data, err := env.Store.ReadArtifact(env.ChapterID, artifact.StageHydrate, "hydrate.json")
	if err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageHydrate), err)
	}
	var out hydrate.HydratedTranscript
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageHydrate), err)
	}
	return &out, nil
}

func saveHydratedTranscript(env *pipeline.ChapterEnv, ht hydrate.HydratedTranscript) error {
	data, err := json.Marshal(ht)
	if err != nil {
		return perr.Wrap(perr.KindInternal, string(artifact.StageHydrate), err)
	}
	return env.Store.WriteArtifact(env.ChapterID, artifact.StageHydrate, "hydrate.json", data)
}
