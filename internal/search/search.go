// Package search indexes sentence-level hydrated-transcript text into
// Meilisearch for operator QA ("find where 'the quick brown fox' ended up
// in the narration"). It has no place in the mastering pipeline's stage
// graph: a chapter's alignment is either searchable or it isn't, and that
// has no bearing on whether downstream stages re-run, so it is wired as a
// standalone CLI command rather than a Stage.
package search

import (
	"context"
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"github.com/jackzampolin/audiobook-master/internal/config"
)

// Document is one indexed sentence: its manuscript text plus the span of
// the treated narration it aligns to.
type Document struct {
	ID         string `json:"id"`
	ChapterID  string `json:"chapter_id"`
	SentenceID int    `json:"sentence_id"`
	Text       string `json:"text"`
	StartMS    int    `json:"start_ms"`
	EndMS      int    `json:"end_ms"`
}

// Client wraps a Meilisearch index dedicated to hydrated-transcript QA
// search.
type Client struct {
	sm    meilisearch.ServiceManager
	index string
}

// NewClient connects to the Meilisearch instance named by cfg and ensures
// the configured index exists with sentence_id as its sort key.
func NewClient(cfg config.SearchConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("search: disabled in config (set search.enabled: true)")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("search: host is required")
	}
	index := cfg.Index
	if index == "" {
		index = "transcripts"
	}

	sm := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))

	if _, err := sm.Index(index).UpdateFilterableAttributes(&[]string{"chapter_id"}); err != nil {
		return nil, fmt.Errorf("search: configure filterable attributes: %w", err)
	}
	if _, err := sm.Index(index).UpdateSortableAttributes(&[]string{"sentence_id", "start_ms"}); err != nil {
		return nil, fmt.Errorf("search: configure sortable attributes: %w", err)
	}

	return &Client{sm: sm, index: index}, nil
}

// IndexSentences upserts docs into the QA index, keyed by Document.ID so
// re-indexing a chapter after a forced rebuild replaces its prior entries
// rather than duplicating them.
func (c *Client) IndexSentences(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	task, err := c.sm.Index(c.index).AddDocuments(docs, "id")
	if err != nil {
		return fmt.Errorf("search: add documents: %w", err)
	}
	if _, err := c.sm.WaitForTask(task.TaskUID, meilisearch.WaitParams{Context: ctx}); err != nil {
		return fmt.Errorf("search: wait for indexing task: %w", err)
	}
	return nil
}

// DeleteChapter removes every indexed sentence belonging to chapterID,
// used before re-indexing a chapter whose hydration was force-rebuilt
// with a different sentence count.
func (c *Client) DeleteChapter(ctx context.Context, chapterID string) error {
	task, err := c.sm.Index(c.index).DeleteDocumentsByFilter(fmt.Sprintf("chapter_id = %q", chapterID))
	if err != nil {
		return fmt.Errorf("search: delete chapter documents: %w", err)
	}
	_, err = c.sm.WaitForTask(task.TaskUID, meilisearch.WaitParams{Context: ctx})
	return err
}

// Hit is one ranked search result.
type Hit struct {
	Document
	Score float64
}

// Query runs a full-text search across every indexed chapter, optionally
// scoped to chapterFilter (empty means every chapter).
func (c *Client) Query(ctx context.Context, text string, chapterFilter string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 20
	}
	req := &meilisearch.SearchRequest{Limit: int64(limit), ShowRankingScore: true}
	if chapterFilter != "" {
		req.Filter = fmt.Sprintf("chapter_id = %q", chapterFilter)
	}

	resp, err := c.sm.Index(c.index).SearchWithContext(ctx, text, req)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			Document: Document{
				ID:         stringField(m, "id"),
				ChapterID:  stringField(m, "chapter_id"),
				SentenceID: intField(m, "sentence_id"),
				Text:       stringField(m, "text"),
				StartMS:    intField(m, "start_ms"),
				EndMS:      intField(m, "end_ms"),
			},
			Score: floatField(m, "_rankingScore"),
		})
	}
	return hits, nil
}

func stringField(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func intField(m map[string]interface{}, key string) int {
	v, _ := m[key].(float64)
	return int(v)
}

func floatField(m map[string]interface{}, key string) float64 {
	v, _ := m[key].(float64)
	return v
}
