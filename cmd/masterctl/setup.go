package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/config"
	"github.com/jackzampolin/audiobook-master/internal/external"
	"github.com/jackzampolin/audiobook-master/internal/external/mfa"
	"github.com/jackzampolin/audiobook-master/internal/jobs"
	"github.com/jackzampolin/audiobook-master/internal/metrics"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
	"github.com/jackzampolin/audiobook-master/internal/pipeline/stages"
	"github.com/jackzampolin/audiobook-master/internal/svcctx"
	"github.com/jackzampolin/audiobook-master/internal/workdir"
)

var (
	bookTitle  string
	bookAuthor string
)

// buildServices wires one book's long-lived services from the resolved
// config and --work-dir flag, factored out here since every masterctl
// subcommand needs the same set.
func buildServices() (*svcctx.Services, error) {
	if workDir == "" {
		return nil, fmt.Errorf("--work-dir is required")
	}

	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := cm.Get()

	work, err := workdir.New(workDir)
	if err != nil {
		return nil, err
	}
	if err := work.EnsureExists(); err != nil {
		return nil, err
	}

	store, err := artifact.Open(workDir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	index, err := artifact.OpenStatusIndex(filepath.Join(workDir, "status.db"))
	if err != nil {
		return nil, fmt.Errorf("open status index: %w", err)
	}

	metricsStore, err := metrics.Open(filepath.Join(workDir, "metrics.db"))
	if err != nil {
		return nil, fmt.Errorf("open metrics store: %w", err)
	}

	pools := jobs.NewPools(cfg.Concurrency.ASRCapacity, cfg.Concurrency.ForcedAlignCapacity)

	workspace, err := jobs.NewWorkspacePool(filepath.Join(workDir, ".workspaces"), cfg.Concurrency.Workspaces)
	if err != nil {
		return nil, fmt.Errorf("init workspace pool: %w", err)
	}

	asrTimeout, err := time.ParseDuration(cfg.ASR.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parse asr.timeout: %w", err)
	}

	reg := external.NewRegistry()
	reg.ASR = external.NewHTTPAsrAdapter(cfg.ASR.Endpoint, config.ResolveEnvVars(cfg.ASR.APIKey), asrTimeout, uint(cfg.ASR.Retries))

	mfaManager, err := mfa.NewManager(mfa.Config{
		ContainerName: cfg.ForcedAlign.ContainerName,
		Image:         cfg.ForcedAlign.Image,
		HostPort:      cfg.ForcedAlign.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("init forced-alignment container manager: %w", err)
	}
	mfaTimeout, err := time.ParseDuration(cfg.ForcedAlign.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parse forced_align.timeout: %w", err)
	}
	reg.ForcedAligner = external.NewDockerForcedAligner(mfaManager, mfaTimeout, uint(cfg.ForcedAlign.Retries))

	bookParams := bookidx.Params{Title: bookTitle, Author: bookAuthor}
	stageRegistry, err := stages.BuildRegistry(cfg, bookParams)
	if err != nil {
		return nil, fmt.Errorf("build stage registry: %w", err)
	}

	return &svcctx.Services{
		Config:    cm,
		Store:     store,
		Index:     index,
		Work:      work,
		Pools:     pools,
		Workspace: workspace,
		Runner:    pipeline.NewRunner(stageRegistry),
		External:  reg,
		Metrics:   metricsStore,
		Logger:    newLogger(),
	}, nil
}
