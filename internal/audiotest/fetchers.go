// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// MemFetcher serves refs from an in-memory map, for tests that need to
// control exactly what a fetch returns and when. It satisfies the
// fetch.Fetcher interface (without importing it to avoid cycles).
//
// A ref can be gated, in which case Fetch blocks until Release is
// called or the context ends. That lets tests hold a load in flight
// while they assert on intermediate state.
type MemFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	fails map[string]error
	gates map[string]chan struct{}
	calls map[string]int
}

// NewMemFetcher creates an empty fetcher. Fetching any ref fails with
// os.ErrNotExist until Put or Fail registers it.
func NewMemFetcher() *MemFetcher {
	return &MemFetcher{
		files: map[string][]byte{},
		fails: map[string]error{},
		gates: map[string]chan struct{}{},
		calls: map[string]int{},
	}
}

// Put registers data to be served for ref.
func (f *MemFetcher) Put(ref string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.files[ref] = data
}

// Fail makes fetches of ref return err instead of data.
func (f *MemFetcher) Fail(ref string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fails[ref] = err
}

// Gate makes fetches of ref block until Release(ref).
func (f *MemFetcher) Gate(ref string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gates[ref] = make(chan struct{})
}

// Release unblocks all pending and future fetches of ref. Releasing a
// ref that was never gated is a no-op.
func (f *MemFetcher) Release(ref string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gate, ok := f.gates[ref]; ok {
		close(gate)
		delete(f.gates, ref)
	}
}

// Calls reports how many times ref has been fetched, including fetches
// still blocked on a gate.
func (f *MemFetcher) Calls(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[ref]
}

// Fetch implements the fetcher contract over the registered refs.
func (f *MemFetcher) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.calls[ref]++
	gate := f.gates[ref]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.fails[ref]; ok {
		return nil, err
	}

	data, ok := f.files[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, os.ErrNotExist)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}
