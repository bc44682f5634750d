package stages

import (
	"github.com/jackzampolin/audiobook-master/internal/align"
	"github.com/jackzampolin/audiobook-master/internal/anchor"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/config"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

// BuildRegistry registers the full book_index -> asr -> anchors ->
// transcript -> hydrate -> mfa -> treatment -> export stage graph,
// parameterized from the resolved configuration.
func BuildRegistry(cfg *config.Config, bookParams bookidx.Params) (*pipeline.Registry, error) {
	r := pipeline.NewRegistry()

	stopwords := make(map[string]bool, len(cfg.Anchor.Stopwords))
	for _, w := range cfg.Anchor.Stopwords {
		stopwords[w] = true
	}
	anchorParams := anchor.Params{
		MinNgram:             cfg.Anchor.MinNgram,
		MaxNgram:             cfg.Anchor.MaxNgram,
		Stopwords:            stopwords,
		AllowRelaxedMatching: cfg.Anchor.AllowRelaxedMatching,
		AllowDuplicates:      cfg.Anchor.AllowDuplicates,
		MinSeparation:        cfg.Anchor.MinSeparation,
		AllowBoundaryCross:   cfg.Anchor.AllowBoundaryCross,
		TargetPerTokens:      cfg.Anchor.TargetPerTokens,
	}

	equiv := make(align.Equivalence, len(cfg.Align.Equivalence))
	for k, v := range cfg.Align.Equivalence {
		equiv[k] = v
	}
	fillers := make(align.FillerSet, len(cfg.Align.Fillers))
	for _, w := range cfg.Align.Fillers {
		fillers[w] = true
	}

	stageList := []pipeline.Stage{
		&BookIndexStage{Params: bookParams},
		&AsrStage{},
		&AnchorsStage{Params: anchorParams},
		&TranscriptStage{Equivalence: equiv, Fillers: fillers},
		&HydrateStage{},
		&MfaStage{},
		&TreatmentStage{},
		&ExportStage{},
	}
	for _, s := range stageList {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}
