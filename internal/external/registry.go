package external

import (
	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/bookdoc"
	"github.com/jackzampolin/audiobook-master/internal/bookidx"
)

// Registry bundles the concrete external-adapter implementations a
// ChapterEnv carries, so pipeline stages depend only on the asr.Adapter /
// ForcedAligner / AudioAdapter / DocumentParser interfaces and never
// construct a transport themselves.
type Registry struct {
	ASR             asr.Adapter
	ForcedAligner   ForcedAligner
	Audio           AudioAdapter
	DocumentParsers *DocumentParserRegistry
	Pronunciation   bookidx.PronunciationProvider
}

// NewRegistry builds a Registry with the stock adapters: a WAV audio
// codec and a document-parser set holding the plaintext and PDF parsers.
// Callers wire ASR and ForcedAligner based on config.
func NewRegistry() *Registry {
	parsers := NewDocumentParserRegistry()
	parsers.Register(bookdoc.PlaintextParser{})
	parsers.Register(bookdoc.PDFParser{})

	return &Registry{
		Audio:           WAVAudioAdapter{},
		DocumentParsers: parsers,
	}
}
