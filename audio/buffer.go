// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"time"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/soundbank/utils"
)

// Buffer holds a fully decoded clip as interleaved float32 samples in [-1,1].
// It is the resident form of audio once decoding is done: decode a stream
// once, keep the Buffer, and hand out as many replayable Sources over it as
// needed.
type Buffer struct {
	data       []float32
	sampleRate int
	channels   int
}

// NewBuffer wraps data as a Buffer. The slice is retained, not copied.
// The sample count must be a whole number of frames.
func NewBuffer(data []float32, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}
	if len(data)%channels != 0 {
		return nil, ErrPartialFrame
	}

	return &Buffer{data: data, sampleRate: sampleRate, channels: channels}, nil
}

// SampleRate of the buffered PCM in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Channels count (e.g., 1=mono, 2=stereo).
func (b *Buffer) Channels() int { return b.channels }

// Frames is the number of sample frames (samples per channel).
func (b *Buffer) Frames() int { return len(b.data) / b.channels }

// Duration of the clip at its sample rate.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(float64(b.Frames()) / float64(b.sampleRate) * float64(time.Second))
}

// Samples returns the backing slice. Callers must treat it as read-only;
// it is shared by every Source handed out over this buffer.
func (b *Buffer) Samples() []float32 { return b.data }

// Source returns a Source replaying the buffer from the start. Every call
// gets an independent read position, so one Buffer can feed several
// pipelines at once.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

// IntBuffer converts the buffer to a go-audio 16-bit IntBuffer for interop
// with the go-audio ecosystem (encoders, transforms).
func (b *Buffer) IntBuffer() *goaudio.IntBuffer {
	out := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: b.channels,
			SampleRate:  b.sampleRate,
		},
		Data:           make([]int, len(b.data)),
		SourceBitDepth: 16,
	}

	for i, s := range b.data {
		out.Data[i] = int(utils.Float32ToInt16(s))
	}

	return out
}

// FromIntBuffer builds a Buffer from a go-audio IntBuffer, scaling by the
// buffer's source bit depth (16 when unset).
func FromIntBuffer(in *goaudio.IntBuffer) (*Buffer, error) {
	if in == nil || in.Format == nil {
		return nil, ErrInvalidFormat
	}

	depth := in.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	scale := float32(int64(1) << (depth - 1))

	data := make([]float32, len(in.Data))
	for i, v := range in.Data {
		data[i] = float32(v) / scale
	}

	return NewBuffer(data, in.Format.SampleRate, in.Format.NumChannels)
}

// bufferSource replays a Buffer. Not safe for concurrent use; take one
// per consumer.
type bufferSource struct {
	buf *Buffer
	pos int
}

func (s *bufferSource) SampleRate() int { return s.buf.sampleRate }
func (s *bufferSource) Channels() int   { return s.buf.channels }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.buf.data) {
		return 0, io.EOF
	}

	n := copy(dst, s.buf.data[s.pos:])
	s.pos += n

	if s.pos >= len(s.buf.data) {
		return n, io.EOF
	}

	return n, nil
}
