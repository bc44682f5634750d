package metrics

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndList(t *testing.T) {
	s := openTestStore(t)

	if err := s.Record(StageMetric{ChapterID: "ch1", Stage: "asr", Provider: "whisper", DurationMS: 1200, Success: true}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(StageMetric{ChapterID: "ch1", Stage: "mfa", DurationMS: 5000, Success: false, ErrorKind: "external"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.List(Filter{ChapterID: "ch1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 metrics, got %d", len(got))
	}
}

func TestStore_ListFiltersByStage(t *testing.T) {
	s := openTestStore(t)
	s.Record(StageMetric{ChapterID: "ch1", Stage: "asr", DurationMS: 100, Success: true})
	s.Record(StageMetric{ChapterID: "ch2", Stage: "mfa", DurationMS: 200, Success: true})

	got, err := s.List(Filter{Stage: "mfa"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ChapterID != "ch2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestStore_ListSinceExcludesOlder(t *testing.T) {
	s := openTestStore(t)
	s.Record(StageMetric{ChapterID: "ch1", Stage: "asr", DurationMS: 100, Success: true, RecordedAt: time.Now().Add(-48 * time.Hour)})
	s.Record(StageMetric{ChapterID: "ch1", Stage: "asr", DurationMS: 100, Success: true, RecordedAt: time.Now()})

	got, err := s.List(Filter{Since: time.Now().Add(-1 * time.Hour)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 recent metric, got %d", len(got))
	}
}

func TestStore_Summarize(t *testing.T) {
	s := openTestStore(t)
	s.Record(StageMetric{ChapterID: "ch1", Stage: "asr", DurationMS: 100, Success: true})
	s.Record(StageMetric{ChapterID: "ch2", Stage: "asr", DurationMS: 300, Success: false, ErrorKind: "external"})

	summaries, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("want 1 summary row, got %d", len(summaries))
	}
	if summaries[0].Runs != 2 || summaries[0].Failures != 1 {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}
}
