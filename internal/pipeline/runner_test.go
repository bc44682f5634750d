package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
)

type fingerprintStage struct {
	name    string
	deps    []string
	fp      string
	runs    *int
	failing bool
}

func (s *fingerprintStage) Name() string                                 { return s.name }
func (s *fingerprintStage) Dependencies() []string                       { return s.deps }
func (s *fingerprintStage) Description() string                          { return "test" }
func (s *fingerprintStage) Fingerprint(env *ChapterEnv) (string, error) { return s.fp, nil }
func (s *fingerprintStage) Run(env *ChapterEnv) error {
	*s.runs++
	if s.failing {
		return errFakeStageFailure
	}
	return nil
}

var errFakeStageFailure = errors.New("fake failure")

func newTestEnv(t *testing.T) *ChapterEnv {
	t.Helper()
	store, err := artifact.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &ChapterEnv{Ctx: context.Background(), ChapterID: "ch1", Store: store}
}

func TestRunner_SkipsUpToDateStage(t *testing.T) {
	runs := 0
	reg := NewRegistry()
	reg.Register(&fingerprintStage{name: "book_index", fp: "fp-1", runs: &runs})
	r := NewRunner(reg)
	env := newTestEnv(t)

	if err := r.RunChapter(env, RunOptions{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := r.RunChapter(env, RunOptions{}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if runs != 1 {
		t.Fatalf("expected stage to run once across two invocations, ran %d times", runs)
	}
}

func TestRunner_ForceRebuildsStage(t *testing.T) {
	runs := 0
	reg := NewRegistry()
	reg.Register(&fingerprintStage{name: "book_index", fp: "fp-1", runs: &runs})
	r := NewRunner(reg)
	env := newTestEnv(t)

	if err := r.RunChapter(env, RunOptions{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := r.RunChapter(env, RunOptions{Force: true}); err != nil {
		t.Fatalf("forced run: %v", err)
	}
	if runs != 2 {
		t.Fatalf("expected force to re-run the stage, ran %d times", runs)
	}
}

func TestRunner_StageFailureStopsSubsequentStages(t *testing.T) {
	firstRuns, secondRuns := 0, 0
	reg := NewRegistry()
	reg.Register(&fingerprintStage{name: "book_index", fp: "fp-1", runs: &firstRuns, failing: true})
	reg.Register(&fingerprintStage{name: "asr", deps: []string{"book_index"}, fp: "fp-2", runs: &secondRuns})
	r := NewRunner(reg)
	env := newTestEnv(t)

	if err := r.RunChapter(env, RunOptions{}); err == nil {
		t.Fatal("expected error from failing stage")
	}
	if secondRuns != 0 {
		t.Fatalf("expected downstream stage not to run after a failure, ran %d times", secondRuns)
	}

	manifest, err := env.Store.LoadManifest(env.ChapterID)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Stages[artifact.StageBookIndex].Status != artifact.RunFailed {
		t.Fatalf("expected book_index recorded failed, got %+v", manifest.Stages[artifact.StageBookIndex])
	}
}

func TestRunner_FromToStageWindow(t *testing.T) {
	aRuns, bRuns, cRuns := 0, 0, 0
	reg := NewRegistry()
	reg.Register(&fingerprintStage{name: "book_index", fp: "fp-1", runs: &aRuns})
	reg.Register(&fingerprintStage{name: "asr", deps: []string{"book_index"}, fp: "fp-2", runs: &bRuns})
	reg.Register(&fingerprintStage{name: "anchors", deps: []string{"asr"}, fp: "fp-3", runs: &cRuns})
	r := NewRunner(reg)
	env := newTestEnv(t)

	if err := r.RunChapter(env, RunOptions{FromStage: "asr", ToStage: "asr"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if aRuns != 0 || bRuns != 1 || cRuns != 0 {
		t.Fatalf("expected only asr to run, got a=%d b=%d c=%d", aRuns, bRuns, cRuns)
	}
}
