package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/hydrate"
	"github.com/jackzampolin/audiobook-master/internal/search"
	"github.com/jackzampolin/audiobook-master/internal/workdir"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Index and query hydrated-transcript text for QA",
}

var searchIndexChapter string

var searchIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index a chapter's hydrated transcript into Meilisearch",
	RunE: func(cmd *cobra.Command, args []string) error {
		if searchIndexChapter == "" {
			return fmt.Errorf("--chapter is required")
		}

		svc, err := buildServices()
		if err != nil {
			return err
		}
		defer svc.Store.Close()
		defer svc.Index.Close()
		defer svc.Metrics.Close()

		index, err := loadBookIndexFor(svc.Work)
		if err != nil {
			return err
		}
		ht, err := loadHydratedTranscriptFor(svc.Store, searchIndexChapter)
		if err != nil {
			return err
		}

		client, err := search.NewClient(svc.Config.Get().Search)
		if err != nil {
			return err
		}

		docs := search.BuildSentenceDocuments(searchIndexChapter, index, ht)
		if err := client.DeleteChapter(cmd.Context(), searchIndexChapter); err != nil {
			return err
		}
		if err := client.IndexSentences(cmd.Context(), docs); err != nil {
			return err
		}
		fmt.Printf("indexed %d sentences for chapter %s\n", len(docs), searchIndexChapter)
		return nil
	},
}

var (
	searchQueryChapter string
	searchQueryLimit   int
)

var searchQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search indexed hydrated-transcript text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}
		defer svc.Store.Close()
		defer svc.Index.Close()
		defer svc.Metrics.Close()

		client, err := search.NewClient(svc.Config.Get().Search)
		if err != nil {
			return err
		}

		hits, err := client.Query(cmd.Context(), args[0], searchQueryChapter, searchQueryLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	},
}

// loadBookIndexFor reads the manuscript's book index the same way
// stages.BookIndexStage does, duplicated here in miniature since the
// stages package's loader is unexported and search indexing runs outside
// the pipeline's stage graph.
func loadBookIndexFor(work *workdir.Dir) (*bookidx.BookIndex, error) {
	data, err := os.ReadFile(work.BookIndexPath())
	if err != nil {
		return nil, fmt.Errorf("read book index: %w", err)
	}
	var idx bookidx.BookIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode book index: %w", err)
	}
	return &idx, nil
}

func loadHydratedTranscriptFor(store *artifact.Store, chapterID string) (*hydrate.HydratedTranscript, error) {
	data, err := store.ReadArtifact(chapterID, artifact.StageHydrate, "hydrate.json")
	if err != nil {
		return nil, fmt.Errorf("read hydrated transcript: %w", err)
	}
	var ht hydrate.HydratedTranscript
	if err := json.Unmarshal(data, &ht); err != nil {
		return nil, fmt.Errorf("decode hydrated transcript: %w", err)
	}
	return &ht, nil
}

func init() {
	searchIndexCmd.Flags().StringVar(&searchIndexChapter, "chapter", "", "chapter ID to index")
	searchQueryCmd.Flags().StringVar(&searchQueryChapter, "chapter", "", "restrict results to one chapter (default: every chapter)")
	searchQueryCmd.Flags().IntVar(&searchQueryLimit, "limit", 20, "max results")

	searchCmd.AddCommand(searchIndexCmd)
	searchCmd.AddCommand(searchQueryCmd)
	rootCmd.AddCommand(searchCmd)
}
