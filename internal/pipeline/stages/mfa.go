package stages

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/external"
	"github.com/jackzampolin/audiobook-master/internal/hydrate"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
	"github.com/jackzampolin/audiobook-master/internal/timing"
)

// MfaStage runs forced alignment over a rented workspace directory and
// merges the resulting TextGrid into the hydrated transcript, replacing
// ASR/interpolated timings with forced-aligned ones wherever the merge
// resynchronizes.
type MfaStage struct {
	Aligner external.ForcedAligner
}

func (s *MfaStage) Name() string { return string(artifact.StageMfa) }
func (s *MfaStage) Dependencies() []string {
	return []string{string(artifact.StageHydrate)}
}
func (s *MfaStage) Description() string {
	return "forced-aligns chapter audio and merges timing into the hydrated transcript"
}

func (s *MfaStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	path, err := audioPath(env)
	if err != nil {
		return "", err
	}
	ht, err := loadHydratedTranscript(env)
	if err != nil {
		return "", err
	}
	params := map[string]string{
		"acoustic_model": env.Config.ForcedAlign.AcousticModel,
		"lookahead":      strconv.Itoa(env.Config.ForcedAlign.Lookahead),
	}
	return artifact.ComputeFingerprint([]string{path, strconv.Itoa(len(ht.Words))}, params, nil), nil
}

func (s *MfaStage) Run(env *pipeline.ChapterEnv) error {
	audio, err := audioPath(env)
	if err != nil {
		return err
	}
	index, err := loadBookIndex(env)
	if err != nil {
		return err
	}
	ht, err := loadHydratedTranscript(env)
	if err != nil {
		return err
	}

	ws, err := env.Workspace.Rent(env.Ctx)
	if err != nil {
		return perr.Wrap(perr.KindCancellation, s.Name(), err)
	}
	defer env.Workspace.Return(ws)

	transcriptPath := filepath.Join(ws, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(transcriptText(ht)), 0o644); err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}

	aligner := s.Aligner
	if aligner == nil {
		aligner = env.External.ForcedAligner
	}
	if aligner == nil {
		return perr.New(perr.KindConfig, s.Name(), "no forced-alignment adapter configured")
	}

	gridPath, err := aligner.Align(env.Ctx, external.ForcedAlignRequest{
		WorkspaceDir:   ws,
		AudioPath:      audio,
		TranscriptPath: transcriptPath,
		DictPath:       env.Config.ForcedAlign.DictPath,
		AcousticModel:  env.Config.ForcedAlign.AcousticModel,
	})
	if err != nil {
		return err
	}

	gridData, err := os.ReadFile(gridPath)
	if err != nil {
		return perr.Wrap(perr.KindDataIntegrity, s.Name(), err)
	}
	grid, err := timing.ParseTextGrid(gridData)
	if err != nil {
		return err
	}

	lookahead := env.Config.ForcedAlign.Lookahead
	merged, warnings := timing.Merge(*index, *ht, *grid, lookahead)
	if env.Logger != nil {
		for _, w := range warnings {
			env.Logger.Warn("timing merge resync failure", "chapter_id", env.ChapterID, "warning", w)
		}
	}

	mfaDir := filepath.Join(env.Store.ChapterDir(env.ChapterID), "alignment", "mfa")
	if err := os.MkdirAll(mfaDir, 0o755); err != nil {
		return perr.Wrap(perr.KindDataIntegrity, s.Name(), err)
	}
	if err := os.WriteFile(filepath.Join(mfaDir, env.ChapterID+".TextGrid"), gridData, 0o644); err != nil {
		return perr.Wrap(perr.KindDataIntegrity, s.Name(), err)
	}

	return saveHydratedTranscript(env, merged)
}

// transcriptText renders the hydrated transcript's words as whitespace-
// separated text, the corpus format MFA expects alongside the audio.
func transcriptText(ht *hydrate.HydratedTranscript) string {
	texts := make([]string, len(ht.Words))
	for i, w := range ht.Words {
		texts[i] = w.Text
	}
	return strings.Join(texts, " ")
}
