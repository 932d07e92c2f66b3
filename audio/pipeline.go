// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/soundbank/utils"
)

// Normalize wraps src so it is delivered at targetRate and, when mono is set,
// as a single averaged channel. A zero or matching targetRate skips the
// resampler and an already-mono source skips the mixer, so normalizing a
// stream that is already in shape costs nothing.
func Normalize(src Source, targetRate int, mono bool) Source {
	if targetRate > 0 && targetRate != src.SampleRate() {
		src = NewResampler(src, targetRate)
	}

	if mono && src.Channels() > 1 {
		src = NewMonoMixer(src)
	}

	return src
}

// ReadAll drains src to EOF and returns the collected samples as a Buffer.
// The source is not closed; callers own its lifetime. A trailing partial
// frame (a truncated input cut mid-frame) is dropped rather than failing
// the whole read.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	if rem := size % channels; rem != 0 {
		size += channels - rem
	}

	data := make([]float32, 0, size)
	buf := make([]float32, size)

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	data = data[:len(data)-len(data)%channels]

	return NewBuffer(data, src.SampleRate(), channels)
}

// ResampleToMono16 is a high-level convenience function that resamples audio
// to a target sample rate, converts it to mono, and collects all samples as
// 16-bit PCM data.
//
// This function builds the processing pipeline with Normalize:
//  1. Resamples the source audio to targetRate using cubic interpolation
//     (skipped when the source is already at targetRate)
//  2. Converts the resampled audio to mono by averaging channels
//     (skipped when the source is already mono)
//  3. Reads all samples from the pipeline
//  4. Converts float32 samples to int16 PCM format
//
// Parameters:
//   - src: The audio source to process (implements Source interface)
//   - targetRate: Target sample rate in Hz (e.g., 8000, 16000, 44100, 48000)
//   - bufferSize: Size of the buffer for reading samples (e.g., 4096)
//     Larger buffers may be more efficient but use more memory
//
// Returns:
//   - []int16: Collected PCM samples as 16-bit signed integers
//   - int: The output sample rate (same as targetRate)
//   - error: Any error encountered during processing, or io.EOF when complete
//
// Note: This is a convenience function for common use cases. For more control
// over the audio processing pipeline, use Normalize() or NewResampler() and
// NewMonoMixer() directly.
//
// Example:
//
//	src, _ := decoder.Decode(file)
//	pcm16, rate, err := audio.ResampleToMono16(src, 8000, 4096)
//	if err != nil && err != io.EOF {
//	    panic(err)
//	}
//	// pcm16 now contains mono 16-bit PCM at 8kHz
func ResampleToMono16(src Source, targetRate int, bufferSize int) ([]int16, int, error) {
	mono := Normalize(src, targetRate, true)

	// Collect all samples
	var pcm16 []int16
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		if n > 0 {
			for i := range n {
				pcm16 = append(pcm16, utils.Float32ToInt16(buf[i]))
			}
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
