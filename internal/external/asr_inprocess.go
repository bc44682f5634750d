package external

import (
	"context"
	"fmt"

	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// InProcessModel is implemented by an ASR engine linked directly into the
// binary (e.g. a cgo-bound whisper.cpp model), as opposed to one reached
// over HTTP. InProcessAsrAdapter calls it once per request with the
// caller's context; it adds no retry and no timeout of its own.
type InProcessModel interface {
	Run(ctx context.Context, audioPath, language string, hints []string) (asr.AsrResponse, error)
}

// InProcessAsrAdapter wraps a locally loaded ASR model so it satisfies
// asr.Adapter without the caller needing to know whether transcription
// happens over the network.
type InProcessAsrAdapter struct {
	Model   InProcessModel
	Engine  string
	Version string
}

// NewInProcessAsrAdapter wraps model with engine/version metadata stamped
// onto every response.
func NewInProcessAsrAdapter(model InProcessModel, engine, version string) *InProcessAsrAdapter {
	return &InProcessAsrAdapter{Model: model, Engine: engine, Version: version}
}

// Transcribe runs the in-process model. Any error is classified
// KindExternal: a crashing or erroring local model is, for the runner's
// purposes, no different from an unreachable remote one.
func (a *InProcessAsrAdapter) Transcribe(ctx context.Context, req asr.Request) (*asr.AsrResponse, error) {
	resp, err := a.Model.Run(ctx, req.AudioPath, req.Language, req.Hints)
	if err != nil {
		return nil, perr.Wrap(perr.KindExternal, "asr", fmt.Errorf("in-process model: %w", err))
	}
	resp.ChapterID = req.ChapterID
	if resp.Engine == "" {
		resp.Engine = a.Engine
	}
	if resp.EngineVersion == "" {
		resp.EngineVersion = a.Version
	}
	return &resp, nil
}
