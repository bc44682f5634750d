package stages

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/jackzampolin/audiobook-master/internal/align"
	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

// TranscriptStage runs the windowed DP aligner over each anchor window,
// producing word/sentence/paragraph-level alignment with status
// classification. Equivalence and Fillers are the aligner's cost-model
// inputs, resolved from config.AlignConfig.
type TranscriptStage struct {
	Equivalence align.Equivalence
	Fillers     align.FillerSet
}

func (s *TranscriptStage) Name() string { return string(artifact.StageTranscript) }
func (s *TranscriptStage) Dependencies() []string {
	return []string{string(artifact.StageAnchors)}
}
func (s *TranscriptStage) Description() string {
	return "aligns book words to ASR tokens within each anchor window"
}

func (s *TranscriptStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	index, err := loadBookIndex(env)
	if err != nil {
		return "", err
	}
	_, windows, err := loadAnchors(env)
	if err != nil {
		return "", err
	}
	params := map[string]string{
		"equivalence": sortedPairs(s.Equivalence),
		"fillers":     sortedKeys(s.Fillers),
	}
	return artifact.ComputeFingerprint([]string{index.SourceFileHash, strconv.Itoa(len(windows))}, params, nil), nil
}

func sortedPairs(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, ",")
}

func sortedKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func (s *TranscriptStage) Run(env *pipeline.ChapterEnv) error {
	index, err := loadBookIndex(env)
	if err != nil {
		return err
	}
	resp, err := loadAsrResponse(env)
	if err != nil {
		return err
	}
	anchors, windows, err := loadAnchors(env)
	if err != nil {
		return err
	}

	result := align.Align(index.Words, resp.Tokens, anchors, windows, *index, s.Equivalence, s.Fillers)

	data, err := json.Marshal(result)
	if err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}
	return env.Store.WriteArtifact(env.ChapterID, artifact.StageTranscript, "align.json", data)
}

func loadAlignResult(env *pipeline.ChapterEnv) (*align.Result, error) {
	data, err := env.Store.ReadArtifact(env.ChapterID, artifact.StageTranscript, "align.json")
	if err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageTranscript), err)
	}
	var out align.Result
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageTranscript), err)
	}
	return &out, nil
}
