// SPDX-License-Identifier: EPL-2.0

package soundbank

import "github.com/google/uuid"

// round tracks one batch of asynchronous loads. Every load goroutine
// holds the round it was counted into, so a straggler from an abandoned
// batch can only ever decrement its own counter, never a newer round's.
type round struct {
	id      string
	pending int
	errs    []error
	aborted bool
	done    chan struct{}
}

func newRound() *round {
	return &round{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}
