// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/soundbank/audio"
)

// Encode writes buf to w as a 16-bit PCM WAV file.
//
// The RIFF container stores chunk sizes in its headers, so the encoder
// needs to seek back and patch them once all samples are written. When w
// implements io.WriteSeeker the file is written directly. Any other
// writer is staged through memory first and flushed in a single Write
// call at the end.
func Encode(w io.Writer, buf *audio.Buffer) error {
	if ws, ok := w.(io.WriteSeeker); ok {
		return encode(ws, buf)
	}

	mem := &memWriter{}
	if err := encode(mem, buf); err != nil {
		return err
	}

	_, err := w.Write(mem.data)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func encode(ws io.WriteSeeker, buf *audio.Buffer) error {
	enc := gowav.NewEncoder(ws, buf.SampleRate(), 16, buf.Channels(), 1)

	if err := enc.Write(buf.IntBuffer()); err != nil {
		enc.Close()

		return fmt.Errorf("%w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// memWriter is an in-memory io.WriteSeeker. Writes past the end grow the
// buffer, writes after a backwards seek overwrite in place.
type memWriter struct {
	data []byte
	off  int64
}

func (m *memWriter) Write(p []byte) (int, error) {
	if need := m.off + int64(len(p)); need > int64(len(m.data)) {
		grown := make([]byte, need)
		copy(grown, m.data)
		m.data = grown
	}

	copy(m.data[m.off:], p)
	m.off += int64(len(p))

	return len(p), nil
}

func (m *memWriter) Seek(offset int64, whence int) (int64, error) {
	var abs int64

	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.off + offset
	case io.SeekEnd:
		abs = int64(len(m.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if abs < 0 {
		return 0, fmt.Errorf("negative seek offset: %d", abs)
	}

	m.off = abs

	return abs, nil
}
