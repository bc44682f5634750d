package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/audiobook-master/internal/jobs"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

var (
	runChapter string
	runAll     bool
	runFrom    string
	runTo      string
	runForce   bool
	runWorkers int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the mastering pipeline for one chapter or every chapter",
	Long: `Run executes the mastering pipeline's stages in dependency order:
book_index, asr, anchors, transcript, hydrate, mfa, treatment, export.

By default a stage is skipped when its fingerprint already matches the
chapter's manifest. --force re-runs every stage in the --from/--to window
regardless of fingerprint.

Examples:
  masterctl run --chapter ch01                  # run one chapter start to finish
  masterctl run --chapter ch01 --to anchors      # stop after anchoring
  masterctl run --all --workers 4                # batch-run every chapter
  masterctl run --chapter ch01 --force --from mfa`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runChapter == "" && !runAll {
			return fmt.Errorf("one of --chapter or --all is required")
		}

		svc, err := buildServices()
		if err != nil {
			return err
		}
		defer svc.Store.Close()
		defer svc.Index.Close()
		defer svc.Metrics.Close()

		ctx := cmd.Context()
		opts := pipeline.RunOptions{FromStage: runFrom, ToStage: runTo, Force: runForce}

		envFor := func(ctx context.Context, chapterID string) *pipeline.ChapterEnv {
			return &pipeline.ChapterEnv{
				Ctx:       ctx,
				ChapterID: chapterID,
				Work:      svc.Work,
				Store:     svc.Store,
				Pools:     svc.Pools,
				Workspace: svc.Workspace,
				Config:    svc.Config.Get(),
				External:  svc.External,
				Logger:    svc.Logger,
				Force:     runForce,
			}
		}

		if runAll {
			chapterIDs, err := svc.Work.ListChapters()
			if err != nil {
				return fmt.Errorf("list chapters: %w", err)
			}
			if len(chapterIDs) == 0 {
				return fmt.Errorf("no chapters found under %s", workDir)
			}
			results := svc.Runner.RunBatch(ctx, svc.Logger, envFor, chapterIDs, runWorkers, opts)
			return jobs.AggregateError(results)
		}

		env := envFor(ctx, runChapter)
		return svc.Runner.RunChapter(env, opts)
	},
}

func init() {
	runCmd.Flags().StringVar(&runChapter, "chapter", "", "chapter ID to run (its subdirectory name under work_dir)")
	runCmd.Flags().BoolVar(&runAll, "all", false, "run every chapter found under work_dir")
	runCmd.Flags().StringVar(&runFrom, "from", "", "first stage to run (inclusive, default: book_index)")
	runCmd.Flags().StringVar(&runTo, "to", "", "last stage to run (inclusive, default: export)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "re-run every stage in the from/to window regardless of fingerprint")
	runCmd.Flags().IntVar(&runWorkers, "workers", 4, "max concurrent chapters for --all")
}
