package workdir

import (
	"path/filepath"
	"testing"
)

func TestNew_RejectsEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDir_Paths(t *testing.T) {
	d, err := New("/tmp/book-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got, want := d.BookIndexPath(), "/tmp/book-1/book-index.json"; got != want {
		t.Errorf("BookIndexPath = %q, want %q", got, want)
	}
	if got, want := d.ChapterDir("ch01"), "/tmp/book-1/ch01"; got != want {
		t.Errorf("ChapterDir = %q, want %q", got, want)
	}
	if got, want := d.ChapterAudioPath("ch01", ".wav"), filepath.Join("/tmp/book-1", "ch01", "audio", "ch01.wav"); got != want {
		t.Errorf("ChapterAudioPath = %q, want %q", got, want)
	}
}

func TestDir_EnsureExists(t *testing.T) {
	root := t.TempDir()
	d, err := New(filepath.Join(root, "book-1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Exists() {
		t.Fatal("should not exist before EnsureExists")
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	if !d.Exists() {
		t.Fatal("should exist after EnsureExists")
	}
	if err := d.EnsureChapterDir("ch01"); err != nil {
		t.Fatalf("EnsureChapterDir: %v", err)
	}
}

func TestDir_ListChapters(t *testing.T) {
	root := t.TempDir()
	d, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	for _, id := range []string{"ch02", "ch01"} {
		if err := d.EnsureChapterDir(id); err != nil {
			t.Fatalf("EnsureChapterDir: %v", err)
		}
	}

	ids, err := d.ListChapters()
	if err != nil {
		t.Fatalf("ListChapters: %v", err)
	}
	want := []string{"ch01", "ch02"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}
