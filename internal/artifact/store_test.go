package artifact

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_SaveLoadManifestRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := NewManifest("ch1")
	m.StageStatus(StageBookIndex).Status = RunComplete
	m.StageStatus(StageBookIndex).Fingerprint = "abc123"
	m.StageStatus(StageBookIndex).CompletedAt = time.Now()

	if err := store.SaveManifest(m); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}

	loaded, err := store.LoadManifest("ch1")
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if loaded.Stages[StageBookIndex].Fingerprint != "abc123" {
		t.Fatalf("expected fingerprint to round-trip, got %+v", loaded.Stages[StageBookIndex])
	}
}

func TestStore_LoadManifestMissingReturnsFreshPending(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m, err := store.LoadManifest("never-seen")
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Stages[StageAsr].Status != RunPending {
		t.Fatalf("expected fresh manifest with pending stages, got %+v", m.Stages[StageAsr])
	}
}

func TestStore_IsUpToDate(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := NewManifest("ch1")
	m.StageStatus(StageAnchors).Status = RunComplete
	m.StageStatus(StageAnchors).Fingerprint = "fp-1"

	if store.IsUpToDate(m, StageAnchors, "fp-2") {
		t.Fatal("expected stale fingerprint to not be up to date")
	}
	if !store.IsUpToDate(m, StageAnchors, "fp-1") {
		t.Fatal("expected matching fingerprint on a complete stage to be up to date")
	}
}

func TestStore_WriteReadArtifact(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.WriteArtifact("ch1", StageAsr, "response.json", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	data, err := store.ReadArtifact("ch1", StageAsr, "response.json")
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Fatalf("unexpected artifact contents: %s", data)
	}

	want := filepath.Join(root, "ch1", "asr", "response.json")
	if store.ArtifactPath("ch1", StageAsr, "response.json") != want {
		t.Fatalf("unexpected artifact path: %s", store.ArtifactPath("ch1", StageAsr, "response.json"))
	}
}

func TestStatusIndex_ListByStatus(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m1 := NewManifest("ch1")
	m1.StageStatus(StageBookIndex).Status = RunComplete
	m2 := NewManifest("ch2")
	m2.StageStatus(StageBookIndex).Status = RunFailed

	if err := store.SaveManifest(m1); err != nil {
		t.Fatalf("save m1: %v", err)
	}
	if err := store.SaveManifest(m2); err != nil {
		t.Fatalf("save m2: %v", err)
	}

	failed, err := store.index.ListByStatus(RunFailed)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(failed) != 1 || failed[0].ChapterID != "ch2" {
		t.Fatalf("expected only ch2's book_index as failed, got %+v", failed)
	}
}
