// SPDX-License-Identifier: EPL-2.0

package soundbank

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/soundbank/audio"
	"github.com/ik5/soundbank/fetch"
)

// Config carries the construction parameters of a Bank. The zero value
// is valid: an empty bank with no callbacks, the default fetcher and
// the default decoder registry.
type Config struct {
	// Sources are the initial name to source registrations. Their loads
	// start before New returns and form the bank's first round.
	Sources map[string]Source

	// BaseURL is prepended to every ref supplied via Ref. It is not
	// applied to in-memory sources.
	BaseURL string

	// OnLoad fires exactly once per loading round, once every load
	// counted into the round has settled. It fires even when some of
	// those loads failed.
	OnLoad func()

	// OnError receives every load failure as a *LoadError, exactly once
	// per failed load.
	OnError func(error)

	// Fetcher retrieves refs. Defaults to &fetch.Auto{}, which routes
	// http(s) URLs over the network and everything else to the local
	// filesystem.
	Fetcher fetch.Fetcher

	// Formats maps extensions and sniffed formats to decoders. Defaults
	// to DefaultFormats().
	Formats *audio.Registry

	// TargetRate resamples every decoded clip to this sample rate.
	// Zero keeps each clip's native rate.
	TargetRate int

	// Mono downmixes every decoded clip to a single channel.
	Mono bool

	// LoadTimeout bounds each fetch and decode. Zero means no timeout.
	LoadTimeout time.Duration

	// Logger receives load lifecycle events. The zero value is silent.
	Logger zerolog.Logger
}

// AddOption adjusts a single Add registration.
type AddOption func(*addOptions)

type addOptions struct {
	onComplete func(*Clip)
	timeout    time.Duration
	hasTimeout bool
}

// OnComplete registers a callback invoked once the added clip settles,
// whether it loaded or failed. Sources that complete immediately still
// deliver the callback on its own goroutine, so the contract is the
// same on every path.
func OnComplete(fn func(*Clip)) AddOption {
	return func(o *addOptions) {
		o.onComplete = fn
	}
}

// LoadTimeout overrides the bank's load timeout for one registration.
// Zero disables the timeout for that load.
func LoadTimeout(d time.Duration) AddOption {
	return func(o *addOptions) {
		o.timeout = d
		o.hasTimeout = true
	}
}
