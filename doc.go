// SPDX-License-Identifier: EPL-2.0

// Package soundbank loads named banks of audio clips concurrently.
//
// A Bank maps names to clips. Each clip is fetched and decoded on its
// own goroutine, the bank tracks aggregate completion per loading
// round, and lookup by name is synchronous at any point, before or
// after loading finishes. The typical use is warming up a prompt or
// sample set that must be resident in memory before playback starts.
//
// # Supported Formats
//
// DefaultFormats registers decoders for:
//   - WAV (PCM 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
//
// Refs without a usable extension fall back to content sniffing.
//
// # Quick Start
//
//	bank := soundbank.New(soundbank.Config{
//	    BaseURL: "https://cdn.example.com/prompts/",
//	    Sources: map[string]soundbank.Source{
//	        "welcome": soundbank.Ref("welcome.wav"),
//	        "goodbye": soundbank.Ref("goodbye.mp3"),
//	    },
//	    OnLoad:  func() { log.Print("all prompts loaded") },
//	    OnError: func(err error) { log.Print(err) },
//	})
//	defer bank.Close()
//
//	if err := bank.Wait(ctx); err != nil {
//	    // one or more loads failed; the rest still loaded
//	}
//
//	clip, err := bank.Get("welcome")
//	// clip.Buffer() holds the decoded PCM
//
// # Sources
//
// A clip's audio can come from four kinds of Source:
//
//	soundbank.Ref("hello.wav")      // fetched: URL, file:// or plain path
//	soundbank.Raw(wavBytes)         // encoded bytes, format sniffed
//	soundbank.Decoded(buffer)       // already decoded, completes at once
//	soundbank.FromClip(other)       // adopt another clip's outcome
//
// Ref and Raw load asynchronously. Decoded completes immediately and
// contributes no pending work. FromClip is immediate when the source
// clip has settled and asynchronous while it is still pending.
//
// # Rounds and Callbacks
//
// Loads are grouped into rounds. The sources passed to New form the
// first round; Add during a round joins it, Add while idle starts a
// new one. OnLoad fires exactly once per round, after every counted
// load has settled, even when some failed. Each failure is delivered
// to OnError as a *LoadError exactly once. Per-clip callbacks attach
// at Add time:
//
//	bank.Add("beep", soundbank.Ref("beep.wav"),
//	    soundbank.OnComplete(func(c *soundbank.Clip) {
//	        log.Printf("%s: %s", c.Name(), c.State())
//	    }))
//
// Callbacks are serialized: no two ever run at the same time.
//
// # Waiting
//
// The callback surface has a task-shaped twin. Clip.Wait blocks until
// one clip settles and returns its buffer or error. Bank.Wait blocks
// until the active round completes and returns the round's errors
// joined together. Both honor context cancellation.
//
// # Normalization
//
// Banks can normalize every clip while decoding, using the cubic
// resampler and the mono mixer from the audio package:
//
//	bank := soundbank.New(soundbank.Config{
//	    TargetRate: 8000,
//	    Mono:       true,
//	})
//
// Every loaded buffer then comes out at 8kHz mono, whatever the input
// file was.
//
// # Errors
//
// Get returns *NotFoundError for unknown names. Load failures are
// *LoadError values wrapping the cause; timeouts wrap ErrLoadTimeout,
// undecodable content wraps ErrUnknownFormat. Add, Get and Has on a
// closed bank panic with ErrBankClosed, which marks a lifecycle bug in
// the caller. Completions that arrive after Close are dropped
// silently.
//
// # Closing
//
// Close releases every clip, cancels in-flight fetches and tears down
// the active round. Wait calls in flight return ErrBankClosed.
// A load that can never finish (a fetcher that blocks forever with no
// LoadTimeout set) leaves its round pending; Loaded and Pending expose
// that state.
//
// See the audio, fetch and formats subpackages for the decode stack
// the bank is built on.
package soundbank
