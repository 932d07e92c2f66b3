// SPDX-License-Identifier: EPL-2.0

package soundbank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/soundbank/audio"
	"github.com/ik5/soundbank/fetch"
)

// Bank is a named collection of audio clips loaded concurrently.
//
// Clips are registered under unique names, fetched and decoded on
// goroutines, and looked up synchronously at any time. Loads are
// grouped into rounds: the batch given to New forms the first round,
// later Add calls join the active round or start a new one, and OnLoad
// fires exactly once when a round's last load settles. A failed load
// reports through OnError and still counts toward round completion, so
// one bad clip never wedges the bank.
//
// All methods are safe for concurrent use. User callbacks never run
// concurrently with each other.
type Bank struct {
	baseURL    string
	fetcher    fetch.Fetcher
	formats    *audio.Registry
	targetRate int
	mono       bool
	timeout    time.Duration
	log        zerolog.Logger

	onLoad  func()
	onError func(error)

	ctx    context.Context
	cancel context.CancelFunc

	// mu guards entries, cur and closed. cbMu serializes user callback
	// invocations and is never held together with mu.
	mu      sync.Mutex
	entries map[string]*Clip
	cur     *round
	closed  bool

	cbMu sync.Mutex
}

// New creates a Bank and starts loading cfg.Sources. Every
// asynchronous source is counted into the first round before any load
// goroutine starts, so a fast completion can never fire OnLoad while
// registrations are still being issued. With no asynchronous sources
// the round is empty and OnLoad is delivered on its own goroutine.
func New(cfg Config) *Bank {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Bank{
		baseURL:    cfg.BaseURL,
		fetcher:    cfg.Fetcher,
		formats:    cfg.Formats,
		targetRate: cfg.TargetRate,
		mono:       cfg.Mono,
		timeout:    cfg.LoadTimeout,
		log:        cfg.Logger,
		onLoad:     cfg.OnLoad,
		onError:    cfg.OnError,
		ctx:        ctx,
		cancel:     cancel,
		entries:    make(map[string]*Clip),
	}

	if b.fetcher == nil {
		b.fetcher = &fetch.Auto{}
	}

	if b.formats == nil {
		b.formats = DefaultFormats()
	}

	b.mu.Lock()

	loaders := make([]func(), 0, len(cfg.Sources))

	for _, name := range slices.Sorted(maps.Keys(cfg.Sources)) {
		if loader := b.addLocked(name, cfg.Sources[name], addOptions{}); loader != nil {
			loaders = append(loaders, loader)
		}
	}

	finished := b.cur == nil
	b.mu.Unlock()

	for _, loader := range loaders {
		go loader()
	}

	if finished && b.onLoad != nil {
		go func() {
			b.mu.Lock()
			closed := b.closed
			b.mu.Unlock()

			if !closed {
				b.invoke(b.onLoad)
			}
		}()
	}

	return b
}

// Add registers src under name and returns the bank for chaining.
// Asynchronous sources join the active round, or start a new one when
// the bank is idle. Re-adding a name closes the old clip before
// installing the replacement. Add panics with ErrBankClosed on a
// closed bank.
func (b *Bank) Add(name string, src Source, opts ...AddOption) *Bank {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}

	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		panic(ErrBankClosed)
	}

	loader := b.addLocked(name, src, o)

	b.mu.Unlock()

	if loader != nil {
		go loader()
	}

	return b
}

// Has reports whether a clip is registered under name, loaded or not.
// It panics with ErrBankClosed on a closed bank.
func (b *Bank) Has(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic(ErrBankClosed)
	}

	_, ok := b.entries[name]

	return ok
}

// Get returns the clip registered under name. The bank keeps ownership;
// repeated calls return the same *Clip. Unknown names fail with a
// *NotFoundError. Get panics with ErrBankClosed on a closed bank.
func (b *Bank) Get(name string) (*Clip, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic(ErrBankClosed)
	}

	c, ok := b.entries[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	return c, nil
}

// Loaded reports whether every registered clip holds a decoded buffer.
// It is computed on demand, is vacuously true for an empty bank and is
// false once the bank is closed.
func (b *Bank) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	for _, c := range b.entries {
		if !c.Loaded() {
			return false
		}
	}

	return true
}

// Pending returns the number of loads still in flight in the active
// round, zero when the bank is idle or closed.
func (b *Bank) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cur == nil {
		return 0
	}

	return b.cur.pending
}

// Len returns the number of registered clips.
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}

// Names returns the registered clip names, sorted.
func (b *Bank) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Sorted(maps.Keys(b.entries))
}

// Wait blocks until the round active at call time completes or ctx
// ends. It returns the round's load errors joined together, nil when
// the bank is idle, and ErrBankClosed when Close tore the round down.
func (b *Bank) Wait(ctx context.Context) error {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return ErrBankClosed
	}

	r := b.cur
	b.mu.Unlock()

	if r == nil {
		return nil
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if r.aborted {
		return ErrBankClosed
	}

	return errors.Join(r.errs...)
}

// Close releases every clip, clears the bank and cancels in-flight
// fetches. Loads that settle afterwards are dropped by the completion
// hook. Close is idempotent.
func (b *Bank) Close() error {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return nil
	}

	b.closed = true

	if b.cur != nil {
		b.cur.aborted = true
		close(b.cur.done)
		b.cur = nil
	}

	entries := b.entries
	b.entries = nil

	b.mu.Unlock()

	b.cancel()

	var errs []error

	for _, c := range entries {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	b.log.Debug().Int("clips", len(entries)).Msg("bank closed")

	return errors.Join(errs...)
}

// addLocked installs a clip for src under name and returns the loader
// to start for asynchronous sources, nil for immediate ones. Callers
// hold b.mu; loaders must be started after it is released.
func (b *Bank) addLocked(name string, src Source, opts addOptions) func() {
	if old, ok := b.entries[name]; ok {
		old.Close()
		b.log.Debug().Str("name", name).Msg("replacing clip")
	}

	timeout := b.timeout
	if opts.hasTimeout {
		timeout = opts.timeout
	}

	switch src.kind {
	case kindDecoded:
		c := newClip(name, "")
		b.entries[name] = c
		b.completeNow(c, src.buf, nil, opts.onComplete)

		return nil

	case kindClip:
		adopted := src.clip

		switch adopted.State() {
		case StateLoaded:
			c := newClip(name, adopted.ref)
			b.entries[name] = c
			b.completeNow(c, adopted.Buffer(), nil, opts.onComplete)

			return nil

		case StateFailed:
			c := newClip(name, adopted.ref)
			b.entries[name] = c
			b.completeNow(c, nil, &LoadError{Name: name, Ref: adopted.ref, Err: adopted.Err()}, opts.onComplete)

			return nil

		case StateClosed:
			c := newClip(name, adopted.ref)
			b.entries[name] = c
			b.completeNow(c, nil, &LoadError{Name: name, Ref: adopted.ref, Err: ErrClipClosed}, opts.onComplete)

			return nil
		}

		// Still pending: join its outcome asynchronously.
		c := newClip(name, adopted.ref)
		b.entries[name] = c
		r := b.roundLocked()
		r.pending++

		return func() { b.load(r, c, src, timeout, opts.onComplete) }

	case kindRef:
		c := newClip(name, b.baseURL+src.ref)
		b.entries[name] = c
		r := b.roundLocked()
		r.pending++
		b.log.Debug().Str("name", name).Str("ref", c.ref).Str("round", r.id).Msg("loading clip")

		return func() { b.load(r, c, src, timeout, opts.onComplete) }

	case kindRaw:
		c := newClip(name, "")
		b.entries[name] = c
		r := b.roundLocked()
		r.pending++
		b.log.Debug().Str("name", name).Str("round", r.id).Msg("decoding clip")

		return func() { b.load(r, c, src, timeout, opts.onComplete) }
	}

	c := newClip(name, "")
	b.entries[name] = c
	b.completeNow(c, nil, &LoadError{Name: name, Err: ErrNoSource}, opts.onComplete)

	return nil
}

// roundLocked returns the active round, minting one when idle. Callers
// hold b.mu.
func (b *Bank) roundLocked() *round {
	if b.cur == nil {
		b.cur = newRound()
		b.log.Debug().Str("round", b.cur.id).Msg("loading round started")
	}

	return b.cur
}

// completeNow settles a clip that needs no loading round. Callbacks are
// delivered on their own goroutines since callers hold b.mu.
func (b *Bank) completeNow(c *Clip, buf *audio.Buffer, err error, onComplete func(*Clip)) {
	c.complete(buf, err)

	if err != nil {
		b.log.Error().Err(err).Str("name", c.name).Msg("clip load failed")

		go b.report(err)
	} else {
		b.log.Debug().Str("name", c.name).Msg("clip ready")
	}

	if onComplete != nil {
		go b.invoke(func() { onComplete(c) })
	}
}

// load runs one counted load to completion. It is the only writer of
// its round besides Close.
func (b *Bank) load(r *round, c *Clip, src Source, timeout time.Duration, onComplete func(*Clip)) {
	ctx := b.ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	buf, err := b.realize(ctx, c, src)
	if err != nil {
		if timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			err = ErrLoadTimeout
		}

		err = &LoadError{Name: c.name, Ref: c.ref, Err: err}
	}

	b.settle(r, c, buf, err, onComplete)
}

// realize produces the decoded buffer for src.
func (b *Bank) realize(ctx context.Context, c *Clip, src Source) (*audio.Buffer, error) {
	switch src.kind {
	case kindClip:
		return src.clip.Wait(ctx)

	case kindRaw:
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return b.decode(src.raw, "")

	case kindRef:
		body, err := b.fetcher.Fetch(ctx, c.ref)
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(body)
		closeErr := body.Close()

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if closeErr != nil {
			return nil, fmt.Errorf("%w", closeErr)
		}

		return b.decode(data, c.ref)
	}

	return nil, ErrNoSource
}

// decode picks a decoder for the data, decodes it and runs the bank's
// normalization pipeline.
func (b *Bank) decode(data []byte, ref string) (*audio.Buffer, error) {
	dec, ok := b.decoderFor(ref, data)
	if !ok {
		return nil, ErrUnknownFormat
	}

	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer src.Close()

	return audio.ReadAll(audio.Normalize(src, b.targetRate, b.mono))
}

// decoderFor resolves a decoder by the ref's extension first, then by
// sniffing the content's leading bytes.
func (b *Bank) decoderFor(ref string, data []byte) (audio.Decoder, bool) {
	if ext := refExt(ref); ext != "" {
		if dec, ok := b.formats.Get(ext); ok {
			return dec, true
		}
	}

	if format, ok := audio.DetectFormat(data); ok {
		return b.formats.Get(format)
	}

	return nil, false
}

// settle is the completion hook: it runs exactly once per counted load.
// The clip settles first; the round bookkeeping happens under b.mu; the
// user callbacks run last, outside b.mu. When the clip was overwritten
// or the bank closed in the meantime, the outcome is dropped but the
// round is still decremented so it can finish.
func (b *Bank) settle(r *round, c *Clip, buf *audio.Buffer, err error, onComplete func(*Clip)) {
	settled := c.complete(buf, err)

	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return
	}

	if err != nil && settled {
		r.errs = append(r.errs, err)
	}

	r.pending--
	finished := r.pending == 0 && !r.aborted

	if finished {
		if b.cur == r {
			b.cur = nil
		}

		close(r.done)
	}

	b.mu.Unlock()

	if settled {
		if err != nil {
			b.log.Error().Err(err).Str("name", c.name).Str("round", r.id).Msg("clip load failed")
			b.report(err)
		} else {
			b.log.Debug().Str("name", c.name).Str("round", r.id).Msg("clip loaded")
		}

		if onComplete != nil {
			b.invoke(func() { onComplete(c) })
		}
	}

	if finished {
		b.log.Debug().Str("round", r.id).Msg("loading round finished")

		if b.onLoad != nil {
			b.invoke(b.onLoad)
		}
	}
}

func (b *Bank) report(err error) {
	if b.onError == nil {
		return
	}

	b.invoke(func() { b.onError(err) })
}

// invoke runs one user callback under cbMu, so callbacks from
// concurrent completions never overlap.
func (b *Bank) invoke(fn func()) {
	b.cbMu.Lock()
	defer b.cbMu.Unlock()

	fn()
}

// refExt extracts the lowercased file extension from a ref, ignoring
// any URL query or fragment.
func refExt(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}

	return strings.ToLower(strings.TrimPrefix(path.Ext(ref), "."))
}
