package stages

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/epub"
	"github.com/jackzampolin/audiobook-master/internal/hydrate"
	"github.com/jackzampolin/audiobook-master/internal/perr"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
)

// ExportStage builds an EPUB3 Media Overlay package for the chapter: the
// manuscript text of every paragraph in the book index, paired with a SMIL
// document that syncs each paragraph to its span in the treated audio.
// It writes one package per chapter; nothing in this module stitches the
// per-chapter packages into a single volume.
type ExportStage struct {
	Narrator string
}

func (s *ExportStage) Name() string { return string(artifact.StageExport) }
func (s *ExportStage) Dependencies() []string {
	return []string{string(artifact.StageTreatment)}
}
func (s *ExportStage) Description() string {
	return "packages chapter text and treated audio into an EPUB3 Media Overlay"
}

func (s *ExportStage) Fingerprint(env *pipeline.ChapterEnv) (string, error) {
	index, err := loadBookIndex(env)
	if err != nil {
		return "", err
	}
	ht, err := loadHydratedTranscript(env)
	if err != nil {
		return "", err
	}
	return artifact.ComputeFingerprint([]string{index.SourceFileHash, intStr(len(ht.Paragraphs))}, map[string]string{
		"narrator": s.Narrator,
	}, nil), nil
}

func (s *ExportStage) Run(env *pipeline.ChapterEnv) error {
	index, err := loadBookIndex(env)
	if err != nil {
		return err
	}
	ht, err := loadHydratedTranscript(env)
	if err != nil {
		return err
	}

	paragraphRange, err := chapterParagraphRange(env.ChapterID, index)
	if err != nil {
		return err
	}

	polished := paragraphText(index, paragraphRange)
	chapter := epub.Chapter{
		ID:           env.ChapterID,
		Title:        env.ChapterID,
		Level:        2,
		LevelName:    "chapter",
		MatterType:   "body",
		PolishedText: polished,
		SortOrder:    0,
	}
	book := epub.Book{
		ID:       env.ChapterID,
		Title:    index.Title,
		Author:   index.Author,
		Language: "en",
	}

	builder := epub.NewMediaOverlayBuilder(book, []epub.Chapter{chapter})
	if s.Narrator != "" {
		builder.SetNarrator(s.Narrator)
	}

	audioPath := filepath.Join(env.Store.ChapterDir(env.ChapterID), env.ChapterID+".treated.wav")
	builder.AddChapterAudio(env.ChapterID, epub.ChapterAudio{
		ChapterID:  env.ChapterID,
		AudioFile:  audioPath,
		DurationMS: durationMS(ht),
		Segments:   paragraphSegments(ht),
	})

	outPath := filepath.Join(env.Store.ChapterDir(env.ChapterID), env.ChapterID+".epub")
	if err := builder.Build(outPath); err != nil {
		return perr.Wrap(perr.KindInternal, s.Name(), err)
	}
	return nil
}

// chapterParagraphRange returns the range of every paragraph in the book
// index, from the first to the last. It does not select the paragraphs of
// the chapter's own section; chapterID is used only in the error message.
func chapterParagraphRange(chapterID string, index *bookidx.BookIndex) (paragraphSpan, error) {
	if len(index.Paragraphs) == 0 {
		return paragraphSpan{}, perr.New(perr.KindDataIntegrity, "export", fmt.Sprintf("chapter %s has no indexed paragraphs", chapterID))
	}
	return paragraphSpan{StartIdx: 0, EndIdx: len(index.Paragraphs) - 1}, nil
}

type paragraphSpan struct {
	StartIdx int
	EndIdx   int
}

// paragraphText reconstructs each paragraph's prose by joining the book
// words in its word range, separating paragraphs with a blank line so the
// chapter XHTML renderer assigns one <p id="pN"> per paragraph in the same
// order as the hydrated transcript's paragraph list.
func paragraphText(index *bookidx.BookIndex, span paragraphSpan) string {
	var sb strings.Builder
	for i := span.StartIdx; i <= span.EndIdx; i++ {
		pr := index.Paragraphs[i]
		words := make([]string, 0, pr.EndWord-pr.StartWord+1)
		for _, w := range index.Words[pr.StartWord : pr.EndWord+1] {
			words = append(words, w.Text)
		}
		sb.WriteString(strings.Join(words, " "))
		if i != span.EndIdx {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func durationMS(ht *hydrate.HydratedTranscript) int {
	if len(ht.Words) == 0 {
		return 0
	}
	return int(ht.Words[len(ht.Words)-1].EndSec * 1000)
}

func paragraphSegments(ht *hydrate.HydratedTranscript) []epub.AudioSegment {
	segs := make([]epub.AudioSegment, 0, len(ht.Paragraphs))
	for i, p := range ht.Paragraphs {
		startMS := int(p.StartSec * 1000)
		endMS := int(p.EndSec * 1000)
		segs = append(segs, epub.AudioSegment{
			ParagraphIdx:  i,
			StartOffsetMS: startMS,
			DurationMS:    endMS - startMS,
		})
	}
	return segs
}
