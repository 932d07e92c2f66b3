// SPDX-License-Identifier: EPL-2.0

package soundbank

import (
	"context"
	"sync"
	"time"

	"github.com/ik5/soundbank/audio"
)

// State is a clip's position in its load lifecycle.
type State int

const (
	// StatePending means the fetch or decode is still in flight.
	StatePending State = iota

	// StateLoaded means the clip holds a decoded buffer.
	StateLoaded

	// StateFailed means the load ended in an error.
	StateFailed

	// StateClosed means the clip was released.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Clip is one named audio asset owned by a Bank. It starts pending,
// settles to loaded or failed exactly once, and answers state queries
// from its own bookkeeping, independent of the bank's aggregate view.
type Clip struct {
	name string
	ref  string

	mu    sync.Mutex
	state State
	buf   *audio.Buffer
	err   error
	done  chan struct{}
}

func newClip(name, ref string) *Clip {
	return &Clip{
		name: name,
		ref:  ref,
		done: make(chan struct{}),
	}
}

// Name returns the name the clip was registered under.
func (c *Clip) Name() string { return c.name }

// Ref returns the resolved reference the clip was fetched from, empty
// for in-memory sources.
func (c *Clip) Ref() string { return c.ref }

// State returns the clip's current lifecycle state.
func (c *Clip) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Loaded reports whether the clip holds a decoded buffer.
func (c *Clip) Loaded() bool {
	return c.State() == StateLoaded
}

// Err returns the load error of a failed clip, nil otherwise.
func (c *Clip) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// Buffer returns the decoded audio, nil until the clip is loaded.
func (c *Clip) Buffer() *audio.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf
}

// Duration returns the decoded length, zero until the clip is loaded.
func (c *Clip) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf == nil {
		return 0
	}

	return c.buf.Duration()
}

// Wait blocks until the clip settles or ctx ends, then returns the
// decoded buffer or the load error. Waiting on a closed clip returns
// ErrClipClosed.
func (c *Clip) Wait(ctx context.Context) (*audio.Buffer, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateLoaded:
		return c.buf, nil
	case StateFailed:
		return nil, c.err
	default:
		return nil, ErrClipClosed
	}
}

// Close releases the clip. A still-pending clip settles as closed and
// unblocks its waiters with ErrClipClosed. Close is idempotent.
func (c *Clip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return nil
	}

	settled := c.state != StatePending
	c.state = StateClosed
	c.buf = nil
	c.err = nil

	if !settled {
		close(c.done)
	}

	return nil
}

// complete settles the clip exactly once and reports whether this call
// was the settling one. Completions arriving after Close are dropped.
func (c *Clip) complete(buf *audio.Buffer, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePending {
		return false
	}

	if err != nil {
		c.state = StateFailed
		c.err = err
	} else {
		c.state = StateLoaded
		c.buf = buf
	}

	close(c.done)

	return true
}
