package stages

import (
	"encoding/json"
	"os"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

// AsrStage dispatches the chapter's narration audio to the configured ASR
// adapter, bounded by env.Pools.ASR's capacity semaphore.
type AsrStage struct{}

func (s *AsrStage) Name() string           { return string(artifact.StageAsr) }
func (s *AsrStage) Dependencies() []string { return []string{string(artifact.StageBookIndex)} }
func (s *AsrStage) Description() string    { return "dispatches chapter audio to the ASR adapter" }

func audioPath(env *pipeline.ChapterEnv) (string, error) {
	for _, ext := range []string{".wav", ".mp3", ".flac"} {
		p := env.Work.ChapterAudioPath(env.ChapterID, ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", perr.New(perr.KindInput, string(artifact.StageAsr), "no chapter audio file found")
}

func (s *AsrStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	path, err := audioPath(env)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", perr.Wrap(perr.KindInput, s.Name(), err)
	}
	params := map[string]string{
		"engine":   env.Config.ASR.Engine,
		"language": env.Config.ASR.Language,
	}
	return artifact.ComputeFingerprint([]string{path, info.ModTime().String()}, params, nil), nil
}

func (s *AsrStage) Run(env *pipeline.ChapterEnv) error {
	path, err := audioPath(env)
	if err != nil {
		return err
	}

	if err := env.Pools.ASR.Acquire(env.Ctx); err != nil {
		return perr.Wrap(perr.KindCancellation, s.Name(), err)
	}
	defer env.Pools.ASR.Release()

	resp, err := env.External.ASR.Transcribe(env.Ctx, asr.Request{
		ChapterID: env.ChapterID,
		AudioPath: path,
		Language:  env.Config.ASR.Language,
		Hints:     env.Config.ASR.Hints,
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}
	return env.Store.WriteArtifact(env.ChapterID, artifact.StageAsr, "response.json", data)
}

// loadAsrResponse reads back a chapter's completed ASR artifact.
func loadAsrResponse(env *pipeline.ChapterEnv) (*asr.AsrResponse, error) {
	data, err := env.Store.ReadArtifact(env.ChapterID, artifact.StageAsr, "response.json")
	if err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageAsr), err)
	}
	var resp asr.AsrResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, string(artifact.StageAsr), err)
	}
	return &resp, nil
}
