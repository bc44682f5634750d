package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

const stageName = "artifact_store"

// Store is the filesystem root for one pipeline run's artifacts, laid out
// as:
//
//	<root>/<chapterID>/manifest.json
//	<root>/<chapterID>/<stage>/<name>
//
// plus a SQLite cross-chapter status index at <root>/status.db (see
// index.go).
type Store struct {
	root  string
	index *StatusIndex // nil if the index could not be opened; store still works, just without fast cross-chapter queries
}

// Open creates root if needed and opens (or creates) the status index.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("mkdir store root: %w", err))
	}
	idx, err := OpenStatusIndex(filepath.Join(root, "status.db"))
	if err != nil {
		return nil, perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("open status index: %w", err))
	}
	return &Store{root: root, index: idx}, nil
}

// Close releases the underlying status index connection.
func (s *Store) Close() error {
	if s.index != nil {
		return s.index.Close()
	}
	return nil
}

// ChapterDir returns the root directory for one chapter's artifacts.
func (s *Store) ChapterDir(chapterID string) string {
	return filepath.Join(s.root, chapterID)
}

// StageDir returns the directory holding one stage's artifacts for a
// chapter.
func (s *Store) StageDir(chapterID string, stage Stage) string {
	return filepath.Join(s.ChapterDir(chapterID), string(stage))
}

// ArtifactPath returns the path for a named artifact within a stage.
func (s *Store) ArtifactPath(chapterID string, stage Stage, name string) string {
	return filepath.Join(s.StageDir(chapterID, stage), name)
}

func (s *Store) manifestPath(chapterID string) string {
	return filepath.Join(s.ChapterDir(chapterID), "manifest.json")
}

// LoadManifest reads chapterID's manifest, returning a fresh all-Pending
// one if none exists yet. Any I/O or deserialization error beyond
// "file does not exist" is fatal for the stage,, since a
// partially-readable manifest means the pipeline cannot trust what has
// already completed.
func (s *Store) LoadManifest(chapterID string) (*Manifest, error) {
	data, err := os.ReadFile(s.manifestPath(chapterID))
	if os.IsNotExist(err) {
		return NewManifest(chapterID), nil
	}
	if err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, stageName, fmt.Errorf("read manifest: %w", err))
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, stageName, fmt.Errorf("decode manifest: %w", err))
	}
	if m.Stages == nil {
		m.Stages = map[Stage]*StageRecord{}
	}
	return &m, nil
}

// SaveManifest writes m atomically (write to a temp file in the same
// directory, then rename) so a crash mid-write never leaves a truncated
// manifest behind, and mirrors each of the chapter's stage records into
// the SQLite index for fast cross-chapter queries.
func (s *Store) SaveManifest(m *Manifest) error {
	dir := s.ChapterDir(m.ChapterID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("mkdir chapter dir: %w", err))
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("encode manifest: %w", err))
	}
	if err := atomicWrite(s.manifestPath(m.ChapterID), data); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Upsert(m); err != nil {
			return perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("update status index: %w", err))
		}
	}
	return nil
}

// WriteArtifact atomically writes a stage artifact's bytes.
func (s *Store) WriteArtifact(chapterID string, stage Stage, name string, data []byte) error {
	dir := s.StageDir(chapterID, stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("mkdir stage dir: %w", err))
	}
	return atomicWrite(s.ArtifactPath(chapterID, stage, name), data)
}

// ReadArtifact reads a previously written stage artifact.
func (s *Store) ReadArtifact(chapterID string, stage Stage, name string) ([]byte, error) {
	data, err := os.ReadFile(s.ArtifactPath(chapterID, stage, name))
	if err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, stageName, fmt.Errorf("read artifact %s/%s/%s: %w", chapterID, stage, name, err))
	}
	return data, nil
}

// IsUpToDate reports whether chapterID's stage is Complete with a
// fingerprint matching fingerprint.
func (s *Store) IsUpToDate(m *Manifest, stage Stage, fingerprint string) bool {
	r, ok := m.Stages[stage]
	return ok && r.Status == RunComplete && r.Fingerprint == fingerprint
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("write temp file: %w", err))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrap(perr.KindInternal, stageName, fmt.Errorf("rename into place: %w", err))
	}
	return nil
}
