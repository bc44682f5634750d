package stages

import (
	"encoding/json"
	"path/filepath"
	"strconv"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
	"github.com/jackzampolin/audiobook-master/internal/prosody"
	"github.com/jackzampolin/audiobook-master/internal/roomtone"
)

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
func intStr(n int) string       { return strconv.Itoa(n) }

// TreatmentStage classifies pauses in the merged hydrated transcript and
// replaces the interior of each treatable gap with a crossfaded loop of a
// roomtone seed recording.
type TreatmentStage struct{}

func (s *TreatmentStage) Name() string { return string(artifact.StageTreatment) }
func (s *TreatmentStage) Dependencies() []string {
	return []string{string(artifact.StageMfa)}
}
func (s *TreatmentStage) Description() string {
	return "analyzes pauses and applies roomtone treatment to chapter audio"
}

func (s *TreatmentStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	audio, err := audioPath(env)
	if err != nil {
		return "", err
	}
	ht, err := loadHydratedTranscript(env)
	if err != nil {
		return "", err
	}
	params := map[string]string{
		"min_pause_sec":         floatStr(env.Config.Prosody.MinPauseSec),
		"probe_step_sec":        floatStr(env.Config.Roomtone.ProbeStepSec),
		"silence_threshold_db":  floatStr(env.Config.Roomtone.SilenceThresholdDb),
		"min_treatable_gap_sec": floatStr(env.Config.Roomtone.MinTreatableGapSec),
		"crossfade_sec":         floatStr(env.Config.Roomtone.CrossfadeSec),
	}
	return artifact.ComputeFingerprint([]string{audio, env.Config.Roomtone.SeedPath, intStr(len(ht.Words))}, params, nil), nil
}

func (s *TreatmentStage) Run(env *pipeline.ChapterEnv) error {
	audioFile, err := audioPath(env)
	if err != nil {
		return err
	}
	ht, err := loadHydratedTranscript(env)
	if err != nil {
		return err
	}
	if env.Config.Roomtone.SeedPath == "" {
		return perr.New(perr.KindConfig, s.Name(), "no roomtone seed path configured")
	}

	narration, err := env.External.Audio.Decode(audioFile)
	if err != nil {
		return err
	}
	seed, err := env.External.Audio.Decode(env.Config.Roomtone.SeedPath)
	if err != nil {
		return err
	}

	prosodyParams := prosody.Params{MinPauseSec: env.Config.Prosody.MinPauseSec}
	pauses := prosody.Analyze(*ht, prosodyParams)

	treatParams := roomtone.Params{
		ProbeStepSec:       env.Config.Roomtone.ProbeStepSec,
		SilenceThresholdDb: env.Config.Roomtone.SilenceThresholdDb,
		MinTreatableGapSec: env.Config.Roomtone.MinTreatableGapSec,
		CrossfadeSec:       env.Config.Roomtone.CrossfadeSec,
	}
	treated, plans := roomtone.Treat(narration, pauses, seed, treatParams)

	outPath := filepath.Join(env.Store.ChapterDir(env.ChapterID), env.ChapterID+".treated.wav")
	if err := env.External.Audio.Encode(treated, outPath); err != nil {
		return err
	}

	data, err := json.Marshal(plans)
	if err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}
	return env.Store.WriteArtifact(env.ChapterID, artifact.StageTreatment, "plans.json", data)
}
