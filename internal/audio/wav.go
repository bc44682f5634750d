package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/jackzampolin/audiobook-master/internal/perr"
)

const stageName = "audio"

// DecodeWAV reads a canonical PCM WAV file (16-bit or 32-bit float
// samples; the two formats Praat/ffmpeg-produced roomtone seeds and ASR
// adapters exchange). It ignores any chunk other than "fmt " and "data".
func DecodeWAV(data []byte) (Buffer, error) {
	r := bytes.NewReader(data)
	var riffHeader [12]byte
	if _, err := io.ReadFull(r, riffHeader[:]); err != nil {
		return Buffer{}, perr.Wrap(perr.KindInput, stageName, fmt.Errorf("read riff header: %w", err))
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return Buffer{}, perr.New(perr.KindInput, stageName, "not a RIFF/WAVE file")
	}

	var (
		channels      int
		sampleRate    int
		bitsPerSample int
		audioFormat   uint16
		pcm           []byte
	)

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF {
				break
			}
			return Buffer{}, perr.Wrap(perr.KindInput, stageName, fmt.Errorf("read chunk header: %w", err))
		}
		id := string(chunkHeader[0:4])
		size := binary.LittleEndian.Uint32(chunkHeader[4:8])
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return Buffer{}, perr.Wrap(perr.KindInput, stageName, fmt.Errorf("read chunk %q body: %w", id, err))
		}
		if size%2 == 1 {
			// chunks are word-aligned; skip the pad byte
			var pad [1]byte
			_, _ = io.ReadFull(r, pad[:])
		}
		switch id {
		case "fmt ":
			if len(body) < 16 {
				return Buffer{}, perr.New(perr.KindInput, stageName, "fmt chunk too short")
			}
			audioFormat = binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
		case "data":
			pcm = body
		}
	}

	if channels == 0 || sampleRate == 0 || pcm == nil {
		return Buffer{}, perr.New(perr.KindInput, stageName, "wav missing fmt or data chunk")
	}

	frames := len(pcm) / (channels * (bitsPerSample / 8))
	buf := Buffer{SampleRate: sampleRate, Samples: make([][]float32, channels)}
	for c := range buf.Samples {
		buf.Samples[c] = make([]float32, frames)
	}

	bytesPerSample := bitsPerSample / 8
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * bytesPerSample
			switch {
			case audioFormat == 3 && bitsPerSample == 32: // IEEE float
				bits := binary.LittleEndian.Uint32(pcm[off : off+4])
				buf.Samples[c][i] = math.Float32frombits(bits)
			case bitsPerSample == 16:
				v := int16(binary.LittleEndian.Uint16(pcm[off : off+2]))
				buf.Samples[c][i] = float32(v) / 32768
			default:
				return Buffer{}, perr.New(perr.KindInput, stageName, fmt.Sprintf("unsupported wav format %d/%d-bit", audioFormat, bitsPerSample))
			}
		}
	}
	return buf, nil
}

// EncodeWAV writes b as a canonical 16-bit PCM WAV file, clipping any
// sample outside [-1, 1].
func EncodeWAV(b Buffer) ([]byte, error) {
	channels := b.Channels()
	frames := b.Frames()
	if channels == 0 {
		return nil, perr.New(perr.KindInput, stageName, "cannot encode a buffer with no channels")
	}
	bytesPerSample := 2
	dataSize := frames * channels * bytesPerSample

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	writeU32(&buf, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	writeU32(&buf, 16)
	writeU16(&buf, 1) // PCM
	writeU16(&buf, uint16(channels))
	writeU32(&buf, uint32(b.SampleRate))
	byteRate := b.SampleRate * channels * bytesPerSample
	writeU32(&buf, uint32(byteRate))
	writeU16(&buf, uint16(channels*bytesPerSample))
	writeU16(&buf, 16)

	buf.WriteString("data")
	writeU32(&buf, uint32(dataSize))

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			s := b.Samples[c][i]
			if s > 1 {
				s = 1
			}
			if s < -1 {
				s = -1
			}
			v := int16(s * 32767)
			writeU16(&buf, uint16(v))
		}
	}
	return buf.Bytes(), nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}
