package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/soundbank/audio"
)

type wavSource struct {
	r          io.Reader
	sampleRate int
	channels   int
	// assume PCM 16-bit
	buf []byte
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) BufSize() int    { return 4096 }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	// Read frames of int16 interleaved, convert to float32
	if len(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}

	n, err := io.ReadFull(s.r, s.buf[:len(dst)*2])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / 2
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i : 2*i+2]))
		dst[i] = float32(v) / 32768.0
	}

	if err != nil {
		// End of the data chunk; report it together with the tail samples
		return samples, io.EOF
	}

	return samples, nil
}

type Decoder struct{}

// Decode parses the RIFF/WAVE container and returns a streaming source over
// the data chunk. Chunks other than fmt and data (LIST, fact, cue, INFO and
// friends) are skipped, so files from the wild decode as long as they carry
// 16-bit PCM.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if !bytes.Equal(riff[0:4], []byte("RIFF")) || !bytes.Equal(riff[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	var (
		haveFmt    bool
		channels   int
		sampleRate int
	)

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// Ran out of chunks without finding data
				return nil, ErrUnsupportedWavLayout
			}
			return nil, fmt.Errorf("%w", err)
		}

		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrUnsupportedWavLayout
			}

			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, ErrUnsupportedWavChunks
			}

			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample := int(binary.LittleEndian.Uint16(body[14:16]))

			if audioFormat != 1 || bitsPerSample != 16 {
				return nil, ErrOnlyPCM16bitSupported
			}
			if channels < 1 || sampleRate < 1 {
				return nil, ErrUnsupportedWavLayout
			}

			haveFmt = true

		case "data":
			if !haveFmt {
				// data before fmt leaves the stream undescribed
				return nil, ErrUnsupportedWavLayout
			}

			return &wavSource{
				r:          io.LimitReader(r, int64(size)),
				sampleRate: sampleRate,
				channels:   channels,
				buf:        make([]byte, 4096),
			}, nil

		default:
			// Chunk bodies are word-aligned: odd sizes carry a pad byte
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, ErrUnsupportedWavChunks
			}
		}
	}
}
