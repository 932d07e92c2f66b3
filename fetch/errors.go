// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported ref scheme")
)

// StatusError reports a non-2xx HTTP response for a ref.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}
