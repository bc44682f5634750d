package external

import (
	"fmt"
	"os"

	"github.com/jackzampolin/audiobook-master/internal/audio"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// AudioAdapter is the §6 audio adapter contract: decode/encode/filter over
// planar float sample buffers. The pipeline's default implementation is
// internal/audio's WAV codec; a production deployment can swap in an
// FFMPEG_EXE-backed implementation supporting compressed formats without
// touching roomtone or any other stage.
type AudioAdapter interface {
	Decode(path string) (audio.Buffer, error)
	Encode(buf audio.Buffer, path string) error
	Filter(buf audio.Buffer, graphSpec string) (audio.Buffer, error)
}

// WAVAudioAdapter implements AudioAdapter using internal/audio's WAV
// decode/encode, the concrete default
type WAVAudioAdapter struct{}

// Decode reads a WAV file into a planar float Buffer.
func (WAVAudioAdapter) Decode(path string) (audio.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audio.Buffer{}, perr.Wrap(perr.KindInput, "audio", err)
	}
	return audio.DecodeWAV(data)
}

// Encode writes buf to path as a 16-bit PCM WAV file.
func (WAVAudioAdapter) Encode(buf audio.Buffer, path string) error {
	data, err := audio.EncodeWAV(buf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Filter is unimplemented for the bare WAV adapter: filter graph
// assumes an FFMPEG_EXE-backed backend, which this default codec does not
// provide. Stages that need filtering (none currently do) must use an
// adapter that implements it.
func (WAVAudioAdapter) Filter(buf audio.Buffer, graphSpec string) (audio.Buffer, error) {
	return audio.Buffer{}, perr.New(perr.KindConfig, "audio", fmt.Sprintf("filter graph %q not supported by the WAV adapter; configure FFMPEG_EXE", graphSpec))
}
