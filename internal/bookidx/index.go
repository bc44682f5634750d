package bookidx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jackzampolin/audiobook-master/internal/perr"
)

const stageName = "book_index"

// Params configures one indexing run. Pronounce is optional; when nil, no
// per-word phonemes are populated.
type Params struct {
	Title      string
	Author     string
	Pronounce  PronunciationProvider
}

// Index builds a BookIndex from the parsed paragraphs of one source file.
// sourceBytes is the raw manuscript content, hashed into SourceFileHash so
// the pipeline runner can fingerprint this stage's input.
//
// Indexing never fails on malformed prose: an empty or punctuation-only
// paragraph simply contributes no words. It fails only when a
// PronunciationProvider returns an error, since that indicates the adapter
// itself is broken.
func Index(sourceFile string, sourceBytes []byte, paragraphs []Paragraph, params Params) (*BookIndex, error) {
	idx := &BookIndex{
		SourceFile:     sourceFile,
		SourceFileHash: hashBytes(sourceBytes),
		Title:          params.Title,
		Author:         params.Author,
	}

	var (
		wordIdx, sentIdx, paraIdx, sectIdx = 0, 0, 0, -1
		curSentStart                      = 0
		curParaStart                      = 0
		curSectStart                      = 0
		curSectTitle                      string
		curSectKind                       SectionKind
		curSectLevel                      int
		sentenceOpen                      bool
	)

	closeSentence := func() {
		if !sentenceOpen {
			return
		}
		idx.Sentences = append(idx.Sentences, SentenceRange{
			ID: sentIdx, StartWord: curSentStart, EndWord: wordIdx - 1, ParagraphIndex: paraIdx,
		})
		sentIdx++
		sentenceOpen = false
	}

	closeParagraph := func() {
		closeSentence()
		if wordIdx-1 < curParaStart {
			return // empty paragraph, nothing to close
		}
		idx.Paragraphs = append(idx.Paragraphs, ParagraphRange{
			ID: paraIdx, StartWord: curParaStart, EndWord: wordIdx - 1, SectionIndex: sectIdx,
		})
		paraIdx++
	}

	closeSection := func() {
		if sectIdx < 0 || wordIdx-1 < curSectStart {
			return
		}
		idx.Sections = append(idx.Sections, SectionRange{
			ID: sectIdx, StartWord: curSectStart, EndWord: wordIdx - 1,
			Title: curSectTitle, Level: curSectLevel, Kind: curSectKind,
		})
	}

	for _, p := range paragraphs {
		if isHeading, kind, title := detectHeading(p); isHeading {
			closeParagraph()
			closeSection()
			sectIdx++
			curSectStart = wordIdx
			curSectTitle = title
			curSectKind = kind
			curSectLevel = p.HeadingLevel
			curParaStart = wordIdx
			curSentStart = wordIdx
			continue
		}

		if sectIdx < 0 {
			// Prose before any detected heading belongs to an implicit
			// leading section so every word still has a SectionIndex.
			sectIdx = 0
			curSectStart = wordIdx
			curSectTitle = ""
			curSectKind = SectionChapter
			curSectLevel = 0
		}

		curParaStart = wordIdx
		curSentStart = wordIdx
		tokens := tokenize(p.Text)
		for _, tok := range tokens {
			if !hasLetterOrDigit(tok) {
				continue
			}
			bw := BookWord{
				Text:           tok,
				WordIndex:      wordIdx,
				SentenceIndex:  sentIdx,
				ParagraphIndex: paraIdx,
				SectionIndex:   sectIdx,
			}
			if params.Pronounce != nil {
				phon, err := params.Pronounce.Phonemes(tok)
				if err != nil {
					return nil, perr.Wrap(perr.KindExternal, stageName, fmt.Errorf("pronunciation provider: %w", err))
				}
				bw.Phonemes = phon
			}
			idx.Words = append(idx.Words, bw)
			wordIdx++
			sentenceOpen = true
			if closesSentence(tok) {
				closeSentence()
				curSentStart = wordIdx
			}
		}
		closeSentence()
		if wordIdx-1 >= curParaStart {
			idx.Paragraphs = append(idx.Paragraphs, ParagraphRange{
				ID: paraIdx, StartWord: curParaStart, EndWord: wordIdx - 1, SectionIndex: sectIdx,
			})
			paraIdx++
			curParaStart = wordIdx
		}
	}
	closeSection()

	disambiguateTitles(idx.Sections)

	idx.Totals = Totals{
		Words:      len(idx.Words),
		Sentences:  len(idx.Sentences),
		Paragraphs: len(idx.Paragraphs),
		Sections:   len(idx.Sections),
	}
	if idx.Totals.Words == 0 {
		idx.BuildWarnings = append(idx.BuildWarnings, "no words indexed: source produced zero tokens")
	}
	return idx, nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
