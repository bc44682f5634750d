package search

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/audiobook-master/internal/bookidx"
	"github.com/jackzampolin/audiobook-master/internal/hydrate"
)

// BuildSentenceDocuments reconstructs one Document per hydrated sentence,
// joining index's book words across the sentence's word range and pairing
// the result with ht's timing for that sentence.
func BuildSentenceDocuments(chapterID string, index *bookidx.BookIndex, ht *hydrate.HydratedTranscript) []Document {
	docs := make([]Document, 0, len(ht.Sentences))
	for _, s := range ht.Sentences {
		if s.SentenceID < 0 || s.SentenceID >= len(index.Sentences) {
			continue
		}
		sr := index.Sentences[s.SentenceID]
		if sr.StartWord < 0 || sr.EndWord >= len(index.Words) || sr.StartWord > sr.EndWord {
			continue
		}

		words := make([]string, 0, sr.EndWord-sr.StartWord+1)
		for _, w := range index.Words[sr.StartWord : sr.EndWord+1] {
			words = append(words, w.Text)
		}

		docs = append(docs, Document{
			ID:         fmt.Sprintf("%s-%d", chapterID, s.SentenceID),
			ChapterID:  chapterID,
			SentenceID: s.SentenceID,
			Text:       strings.Join(words, " "),
			StartMS:    int(s.StartSec * 1000),
			EndMS:      int(s.EndSec * 1000),
		})
	}
	return docs
}
