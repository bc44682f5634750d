package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/jobs"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// Runner executes a Registry's stages for one or many chapters, honoring
// fingerprint-based resume, from/to stage range selection, and force
// rebuilds.
type Runner struct {
	Registry *Registry
	Claim    *jobs.Claim
}

// NewRunner builds a Runner over registry, with its own force-rebuild
// claim tracker so a force rebuild of any stage, not just book_index,
// only proceeds once per chapter/stage pair under contention.
func NewRunner(registry *Registry) *Runner {
	return &Runner{Registry: registry, Claim: jobs.NewClaim()}
}

// RunOptions selects which stages of a chapter run execute.
type RunOptions struct {
	FromStage string // inclusive; empty means the first stage
	ToStage   string // inclusive; empty means the last stage
	Force     bool
}

// RunChapter executes env's chapter through every stage in dependency
// order that falls within opts' from/to window, skipping stages whose
// fingerprint already matches the manifest unless Force is set.
func (r *Runner) RunChapter(env *ChapterEnv, opts RunOptions) error {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ordered, err := r.Registry.GetOrdered()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	inWindow := false
	if opts.FromStage == "" {
		inWindow = true
	}

	manifest, err := env.Store.LoadManifest(env.ChapterID)
	if err != nil {
		return perr.Wrap(perr.KindDataIntegrity, "pipeline", err)
	}

	for _, stage := range ordered {
		if stage.Name() == opts.FromStage {
			inWindow = true
		}
		if !inWindow {
			continue
		}

		if err := r.runStage(env, manifest, stage, opts.Force, logger); err != nil {
			return err
		}

		if stage.Name() == opts.ToStage {
			break
		}
	}

	return nil
}

func (r *Runner) runStage(env *ChapterEnv, manifest *artifact.Manifest, stage Stage, force bool, logger *slog.Logger) error {
	claimKey := env.ChapterID + ":" + stage.Name()

	fingerprint, err := stage.Fingerprint(env)
	if err != nil {
		return r.recordFailure(env, manifest, stage, err)
	}

	record := manifest.StageStatus(artifact.Stage(stage.Name()))
	upToDate := env.Store.IsUpToDate(manifest, artifact.Stage(stage.Name()), fingerprint)

	if upToDate && !force {
		logger.Info("stage up to date, skipping", "chapter_id", env.ChapterID, "stage", stage.Name())
		return nil
	}

	if force {
		// Only one force-rebuild of this chapter/stage pair proceeds under
		// contention; a loser waits until the winner releases the claim and
		// then skips the stage, which the winner has just rebuilt.
		if !r.Claim.TryClaim(claimKey) {
			logger.Info("force rebuild already in flight, waiting", "chapter_id", env.ChapterID, "stage", stage.Name())
			for !r.Claim.TryClaim(claimKey) {
				select {
				case <-env.Ctx.Done():
					return perr.Wrap(perr.KindCancellation, "pipeline", env.Ctx.Err())
				case <-time.After(100 * time.Millisecond):
				}
			}
			r.Claim.Release(claimKey)
			return nil
		}
		defer r.Claim.Release(claimKey)
	}

	logger.Info("stage starting", "chapter_id", env.ChapterID, "stage", stage.Name())
	record.Status = artifact.RunRunning
	record.StartedAt = time.Now()
	if err := env.Store.SaveManifest(manifest); err != nil {
		return perr.Wrap(perr.KindDataIntegrity, "pipeline", err)
	}

	if err := stage.Run(env); err != nil {
		return r.recordFailure(env, manifest, stage, err)
	}

	record.Status = artifact.RunComplete
	record.Fingerprint = fingerprint
	record.CompletedAt = time.Now()
	record.Error = ""
	record.ErrorKind = ""
	if err := env.Store.SaveManifest(manifest); err != nil {
		return perr.Wrap(perr.KindDataIntegrity, "pipeline", err)
	}

	logger.Info("stage completed", "chapter_id", env.ChapterID, "stage", stage.Name())
	return nil
}

func (r *Runner) recordFailure(env *ChapterEnv, manifest *artifact.Manifest, stage Stage, cause error) error {
	record := manifest.StageStatus(artifact.Stage(stage.Name()))
	record.Status = artifact.RunFailed
	record.Error = cause.Error()
	record.ErrorKind = string(perr.KindOf(cause))
	_ = env.Store.SaveManifest(manifest)
	if env.Logger != nil {
		env.Logger.Error("stage failed", "chapter_id", env.ChapterID, "stage", stage.Name(), "error", cause)
	}
	return fmt.Errorf("chapter %s stage %s: %w", env.ChapterID, stage.Name(), cause)
}

// RunBatch runs chapterIDs with bounded concurrency maxWorkers, building a
// fresh ChapterEnv per chapter from envFor (e.g. a rented workspace
// directory, a per-chapter logger) while every chapter shares the
// Pools/Store/Config/External wired into envFor's closure.
func (r *Runner) RunBatch(ctx context.Context, logger *slog.Logger, envFor func(ctx context.Context, chapterID string) *ChapterEnv, chapterIDs []string, maxWorkers int, opts RunOptions) []jobs.ChapterResult {
	return jobs.RunBatch(ctx, logger, chapterIDs, maxWorkers, func(ctx context.Context, chapterID string) error {
		env := envFor(ctx, chapterID)
		return r.RunChapter(env, opts)
	})
}
