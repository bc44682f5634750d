package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/audiobook-master/internal/batch"
	"github.com/jackzampolin/audiobook-master/internal/jobs"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

var (
	cronSchedule string
	cronWorkers  int
	cronWatch    bool
	cronDebounce time.Duration
)

var serveCronCmd = &cobra.Command{
	Use:   "serve-cron",
	Short: "Run the mastering pipeline on a recurring schedule",
	Long: `Serve-cron sweeps every chapter found under work_dir on a cron schedule,
running whatever stages are not yet up to date. Each chapter that's already
fully built is a no-op; this is meant for an unattended drop-folder where
new chapters land between sweeps.

With --watch, an fsnotify watcher also triggers an immediate sweep whenever
work_dir settles after new files are dropped in, rather than waiting for
the next scheduled tick.

The config file is watched for changes and hot-reloaded between sweeps, same
as the rest of masterctl.

Examples:
  masterctl serve-cron                          # every 15 minutes
  masterctl serve-cron --schedule "0 * * * *"   # hourly, top of the hour
  masterctl serve-cron --watch                  # also sweep on drop-folder activity`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}
		defer svc.Store.Close()
		defer svc.Index.Close()
		defer svc.Metrics.Close()

		svc.Config.WatchConfig()

		ctx := cmd.Context()

		runSweep := func(ctx context.Context, chapterIDs []string) {
			if len(chapterIDs) == 0 {
				svc.Logger.Info("serve-cron: no chapters found, nothing to sweep")
				return
			}

			cfg := svc.Config.Get()
			envFor := func(ctx context.Context, chapterID string) *pipeline.ChapterEnv {
				return &pipeline.ChapterEnv{
					Ctx:       ctx,
					ChapterID: chapterID,
					Work:      svc.Work,
					Store:     svc.Store,
					Pools:     svc.Pools,
					Workspace: svc.Workspace,
					Config:    cfg,
					External:  svc.External,
					Logger:    svc.Logger,
				}
			}

			workers := cronWorkers
			if workers <= 0 {
				workers = cfg.Concurrency.BatchWorkers
			}
			results := svc.Runner.RunBatch(ctx, svc.Logger, envFor, chapterIDs, workers, pipeline.RunOptions{})
			if err := jobs.AggregateError(results); err != nil {
				svc.Logger.Error("serve-cron: sweep completed with failures", "error", err)
			} else {
				svc.Logger.Info("serve-cron: sweep completed", "chapters", len(chapterIDs))
			}
		}

		sweep := func() {
			chapterIDs, err := svc.Work.ListChapters()
			if err != nil {
				svc.Logger.Error("serve-cron: list chapters", "error", err)
				return
			}
			runSweep(ctx, chapterIDs)
		}

		c := cron.New()
		if _, err := c.AddFunc(cronSchedule, sweep); err != nil {
			return fmt.Errorf("parse --schedule %q: %w", cronSchedule, err)
		}
		svc.Logger.Info("serve-cron: starting", "schedule", cronSchedule, "watch", cronWatch, "work_dir", workDir)
		c.Start()
		defer c.Stop()

		if cronWatch {
			watcher := batch.NewWatcher(svc.Work, cronDebounce, svc.Logger)
			go func() {
				if err := watcher.Run(ctx, runSweep); err != nil {
					svc.Logger.Error("serve-cron: batch watcher stopped", "error", err)
				}
			}()
		}

		<-ctx.Done()
		svc.Logger.Info("serve-cron: shutting down")
		return nil
	},
}

func init() {
	serveCronCmd.Flags().StringVar(&cronSchedule, "schedule", "*/15 * * * *", "cron schedule for the batch sweep")
	serveCronCmd.Flags().IntVar(&cronWorkers, "workers", 0, "max concurrent chapters per sweep (default: concurrency.batch_workers)")
	serveCronCmd.Flags().BoolVar(&cronWatch, "watch", false, "also sweep immediately when work_dir settles after new files are dropped in")
	serveCronCmd.Flags().DurationVar(&cronDebounce, "watch-debounce", 5*time.Second, "quiet period before a drop-folder watch fires (with --watch)")
}
