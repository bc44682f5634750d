// Package pipeline implements the Pipeline Runner: a registry
// of Stages executed in dependency order per chapter, each one resumable
// via a content fingerprint recorded in the chapter's artifact.Manifest.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/config"
	"github.com/jackzampolin/audiobook-master/internal/external"
	"github.com/jackzampolin/audiobook-master/internal/jobs"
	"github.com/jackzampolin/audiobook-master/internal/workdir"
)

// ChapterEnv is the message-passed execution context for one chapter's
// stage run: it replaces a global ambient session so that two chapters
// running concurrently never share mutable state beyond what the
// resource Pools themselves arbitrate.
type ChapterEnv struct {
	Ctx       context.Context
	ChapterID string
	Work      *workdir.Dir
	Store     *artifact.Store
	Pools     *jobs.Pools
	Workspace *jobs.WorkspacePool
	Config    *config.Config
	External  *external.Registry
	Logger    *slog.Logger
	Force     bool
}

// Stage is the interface every pipeline stage implements. Unlike a
// long-running async job, a Stage's Run is a single synchronous unit of
// work for one chapter; the Pipeline Runner is what fans work out across
// chapters (internal/jobs.RunBatch) and across the resource Pools.
type Stage interface {
	// Name identifies the stage; must match an artifact.Stage constant.
	Name() string
	// Dependencies lists the stage names that must complete first.
	Dependencies() []string
	// Description is a short human-readable summary of the stage.
	Description() string

	// Fingerprint computes this stage's content fingerprint for the
	// chapter in env, covering its inputs, parameters, and tool
	// versions, so the runner can decide whether a previously completed
	// run is still valid.
	Fingerprint(env *ChapterEnv) (string, error)

	// Run executes the stage, reading its dependencies' artifacts from
	// env.Store and writing its own. Run must be safe to re-invoke: the
	// runner only calls it when the fingerprint does not match the
	// manifest's recorded one (or Force is set), but Run itself should
	// not assume anything beyond "my dependencies' artifacts exist".
	Run(env *ChapterEnv) error
}
