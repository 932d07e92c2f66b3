// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
	"testing"
)

// raggedSource returns a fixed sample count that is not frame-aligned, the
// shape of a stream cut off mid-frame.
type raggedSource struct {
	samples []float32
	read    bool
}

func (r *raggedSource) SampleRate() int { return 8000 }
func (r *raggedSource) Channels() int   { return 2 }
func (r *raggedSource) BufSize() int    { return 0 }
func (r *raggedSource) Close() error    { return nil }

func (r *raggedSource) ReadSamples(dst []float32) (int, error) {
	if r.read {
		return 0, io.EOF
	}
	r.read = true
	n := copy(dst, r.samples)
	return n, io.EOF
}

func TestReadAll_Mono(t *testing.T) {
	t.Parallel()

	src := newSineSource(8000, 1, 800, 440.0)

	buf, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v, want nil", err)
	}

	if buf.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", buf.SampleRate())
	}
	if buf.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", buf.Channels())
	}
	if buf.Frames() != 800 {
		t.Errorf("Frames() = %d, want 800", buf.Frames())
	}
}

func TestReadAll_Stereo(t *testing.T) {
	t.Parallel()

	src := newConstantSource(44100, 2, 1000, 0.25)

	buf, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v, want nil", err)
	}

	if buf.Frames() != 1000 {
		t.Errorf("Frames() = %d, want 1000", buf.Frames())
	}
	if len(buf.Samples()) != 2000 {
		t.Errorf("len(Samples()) = %d, want 2000", len(buf.Samples()))
	}

	for i, s := range buf.Samples() {
		if s != 0.25 {
			t.Errorf("Samples()[%d] = %v, want 0.25", i, s)
			break
		}
	}
}

func TestReadAll_Empty(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 2, 0)

	buf, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v, want nil", err)
	}

	if buf.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", buf.Frames())
	}
}

func TestReadAll_TrimsPartialFrame(t *testing.T) {
	t.Parallel()

	// 5 samples over 2 channels: the dangling 5th must be dropped
	src := &raggedSource{samples: []float32{0.1, 0.2, 0.3, 0.4, 0.5}}

	buf, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v, want nil", err)
	}

	if buf.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2 (partial frame trimmed)", buf.Frames())
	}
	if len(buf.Samples()) != 4 {
		t.Errorf("len(Samples()) = %d, want 4", len(buf.Samples()))
	}
}

func TestNormalize_PassThrough(t *testing.T) {
	t.Parallel()

	src := newSineSource(8000, 1, 100, 440.0)

	// Matching rate and already mono: nothing to do
	got := Normalize(src, 8000, true)
	if got != Source(src) {
		t.Error("Normalize() wrapped a source that is already in shape")
	}

	// Zero target rate keeps the source rate
	got = Normalize(src, 0, false)
	if got != Source(src) {
		t.Error("Normalize() with zero rate wrapped the source")
	}
}

func TestNormalize_Resamples(t *testing.T) {
	t.Parallel()

	src := newSineSource(44100, 2, 4410, 440.0)

	got := Normalize(src, 8000, false)

	if got.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", got.SampleRate())
	}
	if got.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2 (mono not requested)", got.Channels())
	}
}

func TestNormalize_Downmixes(t *testing.T) {
	t.Parallel()

	src := newConstantSource(8000, 2, 100, 0.5)

	got := Normalize(src, 8000, true)

	if got.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", got.SampleRate())
	}
	if got.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", got.Channels())
	}
}

func TestNormalize_RateAndChannels(t *testing.T) {
	t.Parallel()

	src := newSineSource(44100, 2, 44100, 440.0)

	buf, err := ReadAll(Normalize(src, 8000, true))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if buf.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", buf.SampleRate())
	}
	if buf.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", buf.Channels())
	}

	// 1 second of input should come out as about 1 second of output
	expected := 8000
	tolerance := 200
	if buf.Frames() < expected-tolerance || buf.Frames() > expected+tolerance {
		t.Errorf("Frames() = %d, want ≈%d (±%d)", buf.Frames(), expected, tolerance)
	}
}

func TestResampleToMono16_Basic(t *testing.T) {
	t.Parallel()

	// Create 1 second of stereo audio at 44.1kHz
	src := newSineSource(44100, 2, 44100, 440.0)

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)

	if err != nil && err != io.EOF {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}

	if rate != 8000 {
		t.Errorf("ResampleToMono16() rate = %d, want 8000", rate)
	}

	// Should have approximately 8000 samples (1 second at 8kHz, mono)
	expected := 8000
	tolerance := 200
	if len(pcm16) < expected-tolerance || len(pcm16) > expected+tolerance {
		t.Errorf("ResampleToMono16() got %d samples, want ≈%d (±%d)",
			len(pcm16), expected, tolerance)
	}
}

func TestResampleToMono16_AlreadyMono(t *testing.T) {
	t.Parallel()

	// Source is already mono, only the rate changes
	src := newConstantSource(16000, 1, 16000, 0.5)

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)

	if err != nil && err != io.EOF {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}

	if rate != 8000 {
		t.Errorf("ResampleToMono16() rate = %d, want 8000", rate)
	}

	expected := 8000
	tolerance := 200
	if len(pcm16) < expected-tolerance || len(pcm16) > expected+tolerance {
		t.Errorf("ResampleToMono16() got %d samples, want ≈%d (±%d)",
			len(pcm16), expected, tolerance)
	}

	// With constant 0.5 input, all samples should be around 16383 (0.5 * 32767)
	for i, s := range pcm16 {
		if math.Abs(float64(s-16384)) > 1000 {
			t.Errorf("pcm16[%d] = %d, want ≈16384", i, s)
			break
		}
	}
}

func TestResampleToMono16_SameRateMono(t *testing.T) {
	t.Parallel()

	// Nothing to convert: the exact samples must come through
	src := newConstantSource(8000, 1, 100, 0.5)

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)

	if err != nil && err != io.EOF {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}

	if rate != 8000 {
		t.Errorf("ResampleToMono16() rate = %d, want 8000", rate)
	}

	if len(pcm16) != 100 {
		t.Errorf("ResampleToMono16() got %d samples, want exactly 100", len(pcm16))
	}

	for i, s := range pcm16 {
		if s != 16383 {
			t.Errorf("pcm16[%d] = %d, want 16383", i, s)
			break
		}
	}
}

func TestResampleToMono16_EmptySource(t *testing.T) {
	t.Parallel()

	src := newSilentSource(44100, 2, 0)

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)

	if err != nil && err != io.EOF {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}

	if rate != 8000 {
		t.Errorf("ResampleToMono16() rate = %d, want 8000", rate)
	}

	if len(pcm16) != 0 {
		t.Errorf("ResampleToMono16() got %d samples, want 0", len(pcm16))
	}
}

func TestResampleToMono16_VariousRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		srcRate    int
		dstRate    int
		srcSamples int
	}{
		{
			name:       "44.1kHz to 8kHz",
			srcRate:    44100,
			dstRate:    8000,
			srcSamples: 44100,
		},
		{
			name:       "48kHz to 16kHz",
			srcRate:    48000,
			dstRate:    16000,
			srcSamples: 48000,
		},
		{
			name:       "8kHz to 16kHz (upsample)",
			srcRate:    8000,
			dstRate:    16000,
			srcSamples: 8000,
		},
		{
			name:       "22.05kHz to 8kHz",
			srcRate:    22050,
			dstRate:    8000,
			srcSamples: 22050,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSineSource(tt.srcRate, 2, tt.srcSamples, 440.0)

			pcm16, rate, err := ResampleToMono16(src, tt.dstRate, 4096)

			if err != nil && err != io.EOF {
				t.Fatalf("ResampleToMono16() error = %v", err)
			}

			if rate != tt.dstRate {
				t.Errorf("ResampleToMono16() rate = %d, want %d", rate, tt.dstRate)
			}

			// Verify we got approximately the right number of samples
			// (1 second of audio at dstRate)
			expected := tt.dstRate
			tolerance := tt.dstRate / 20 // 5% tolerance
			if len(pcm16) < expected-tolerance || len(pcm16) > expected+tolerance {
				t.Errorf("ResampleToMono16() got %d samples, want ≈%d (±%d)",
					len(pcm16), expected, tolerance)
			}
		})
	}
}

func TestResampleToMono16_Clamping(t *testing.T) {
	t.Parallel()

	// Source with values outside [-1, 1] to test clamping
	src := newMockSource(8000, 1, 100, func(sample int, channel int) float32 {
		if sample%3 == 0 {
			return 2.0 // Should clamp to 1.0 -> 32767
		}

		if sample%3 == 1 {
			return -2.0 // Should clamp to -1.0 -> -32768
		}

		return 0.0
	})

	pcm16, _, err := ResampleToMono16(src, 8000, 4096)

	if err != nil && err != io.EOF {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}

	for i, s := range pcm16 {
		switch i % 3 {
		case 0:
			if s != 32767 {
				t.Errorf("pcm16[%d] = %d, want 32767 (clamped)", i, s)
			}
		case 1:
			if s != -32767 {
				t.Errorf("pcm16[%d] = %d, want -32767 (clamped)", i, s)
			}
		}
	}
}

// BenchmarkReadAll benchmarks collecting a full decoded stream.
func BenchmarkReadAll(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := newSineSource(44100, 2, 44100, 440.0)
		_, _ = ReadAll(src)
	}
}

// BenchmarkResampleToMono16 benchmarks the complete pipeline
func BenchmarkResampleToMono16(b *testing.B) {
	// 1 second of stereo 44.1kHz audio
	b.ReportAllocs()

	for b.Loop() {
		src := newSineSource(44100, 2, 44100, 440.0)
		_, _, _ = ResampleToMono16(src, 8000, 4096)
	}
}

// BenchmarkNormalizeReadAll benchmarks normalizing into a resident buffer
func BenchmarkNormalizeReadAll(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := newSineSource(44100, 2, 44100, 440.0)
		_, _ = ReadAll(Normalize(src, 8000, true))
	}
}
