// SPDX-License-Identifier: EPL-2.0

package soundbank

import (
	"errors"
	"fmt"
)

var (
	// ErrBankClosed is the panic value of Add, Get and Has on a closed
	// bank, and the error Wait returns when Close tears down an active
	// round.
	ErrBankClosed = errors.New("bank is closed")

	// ErrClipClosed is returned by Clip.Wait when the clip was closed
	// before its load settled.
	ErrClipClosed = errors.New("clip is closed")

	// ErrLoadTimeout marks loads that exceeded their timeout. It arrives
	// wrapped in a *LoadError; test for it with errors.Is.
	ErrLoadTimeout = errors.New("load timed out")

	// ErrUnknownFormat is reported when neither the ref's extension nor
	// the content's leading bytes match a registered decoder.
	ErrUnknownFormat = errors.New("unknown audio format")

	// ErrNoSource is reported when a clip is registered with a zero
	// Source value.
	ErrNoSource = errors.New("no source provided")
)

// NotFoundError is returned by Get for a name that was never registered
// or was overwritten away.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no clip named %q", e.Name)
}

// LoadError reports the failure of one named load. It is handed to the
// bank's OnError hook and returned by Clip.Wait and Bank.Wait.
type LoadError struct {
	// Name the clip was registered under.
	Name string

	// Ref the clip was fetched from, empty for in-memory sources.
	Ref string

	// Err is the underlying fetch or decode failure.
	Err error
}

func (e *LoadError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("loading %q: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("loading %q from %s: %v", e.Name, e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
