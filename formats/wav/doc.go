// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// The decoder reads PCM 16-bit WAV files, mono or stereo, at any sample
// rate. The two encoders write the same layout back out.
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV files:
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	// Read samples
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The decoder returns an audio.Source that provides samples as float32
// values in the range [-1.0, 1.0].
//
// The decoder walks the RIFF chunk list rather than assuming a fixed
// layout. Files with extra chunks before or after the sample data (LIST,
// fact, cue and similar) decode fine, the unknown chunks are skipped.
// Reading stops at the end of the data chunk, trailing chunks never
// bleed into the samples.
//
// # Writing WAV Files
//
// Encode writes an audio.Buffer, handling any channel count:
//
//	buf, _ := audio.NewBuffer(samples, 44100, 2)
//	file, _ := os.Create("output.wav")
//	err := wav.Encode(file, buf)
//
// WriteWAV16 is the low-level mono writer for raw int16 PCM, typically
// fed from audio.ResampleToMono16:
//
//	samples, rate, _ := audio.ResampleToMono16(src, 8000, 4096)
//	file, _ := os.Create("output.wav")
//	err := wav.WriteWAV16(file, rate, samples)
//
// Both writers produce a complete file with proper headers.
//
// # Error Handling
//
// The package defines several error types:
//   - ErrNotWavFile: The input is not a valid WAV file
//   - ErrOnlyPCM16bitSupported: Only 16-bit PCM is supported
//   - ErrUnsupportedWavLayout: Unsupported WAV file structure
//   - ErrUnsupportedWavChunks: A chunk could not be read or skipped
//
// Example:
//
//	source, err := decoder.Decode(file)
//	if err == wav.ErrNotWavFile {
//	    fmt.Println("Not a WAV file")
//	}
//
// # File Format
//
// WAV files consist of:
//   - RIFF header (12 bytes)
//   - fmt chunk: audio format, sample rate, channels, bit depth
//   - data chunk: actual audio samples
//   - optionally other chunks, which this package skips
package wav
