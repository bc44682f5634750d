// Package stages wires the domain packages (bookidx, anchor, align,
// hydrate, timing, prosody, roomtone) into concrete pipeline.Stage
// implementations, following stage graph.
package stages

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

// BookIndexStage builds (or reuses) the book-wide book-index.json shared
// by every chapter. It is the only writer-side user of
// env.Pools.BookIndexWriter's semaphore.
type BookIndexStage struct {
	Params bookidx.Params
}

func (s *BookIndexStage) Name() string           { return string(artifact.StageBookIndex) }
func (s *BookIndexStage) Dependencies() []string { return nil }
func (s *BookIndexStage) Description() string {
	return "parses the manuscript into words, sentences, paragraphs, and sections"
}

// manuscriptPath finds the manuscript source file in the work_dir,
// trying .pdf, .txt, .md, .markdown and .docx in that order. No parser in
// the default registry handles .docx, so Run rejects a .docx manuscript
// with a config error.
func manuscriptPath(env *pipeline.ChapterEnv) (string, error) {
	for _, ext := range []string{".pdf", ".txt", ".md", ".markdown", ".docx"} {
		p := env.Work.ManuscriptPath(ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", perr.New(perr.KindInput, string(artifact.StageBookIndex), "no manuscript file found in work_dir")
}

func (s *BookIndexStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	path, err := manuscriptPath(env)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", perr.Wrap(perr.KindInput, s.Name(), err)
	}
	params := map[string]string{
		"title":  s.Params.Title,
		"author": s.Params.Author,
	}
	return artifact.ComputeFingerprint([]string{string(data)}, params, nil), nil
}

func (s *BookIndexStage) Run(env *pipeline.ChapterEnv) error {
	if err := env.Pools.BookIndexWriter.Acquire(env.Ctx); err != nil {
		return perr.Wrap(perr.KindCancellation, s.Name(), err)
	}
	defer env.Pools.BookIndexWriter.Release()

	path, err := manuscriptPath(env)
	if err != nil {
		return err
	}
	sourceBytes, err := os.ReadFile(path)
	if err != nil {
		return perr.Wrap(perr.KindInput, s.Name(), err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parser := env.External.DocumentParsers.For(ext)
	if parser == nil {
		return perr.New(perr.KindConfig, s.Name(), fmt.Sprintf("no document parser registered for %s", ext))
	}
	paragraphs, err := parser.Parse(sourceBytes)
	if err != nil {
		return perr.Wrap(perr.KindInput, s.Name(), err)
	}

	index, err := bookidx.Index(path, sourceBytes, paragraphs, s.Params)
	if err != nil {
		return err
	}

	data, err := json.Marshal(index)
	if err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}
	if err := os.WriteFile(env.Work.BookIndexPath(), data, 0o644); err != nil {
		return perr.Wrap(perr.KindDataIntegrity, s.Name(), err)
	}
	return nil
}

// loadBookIndex reads the shared book-index.json from the work_dir,
// shared by every stage downstream of book_index.
func loadBookIndex(env *pipeline.ChapterEnv) (*bookidx.BookIndex, error) {
	data, err := os.ReadFile(env.Work.BookIndexPath())
	if err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, "book_index", err)
	}
	var idx bookidx.BookIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, "book_index", err)
	}
	return &idx, nil
}
