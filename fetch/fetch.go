// SPDX-License-Identifier: EPL-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves the encoded bytes behind a clip reference. The bank does
// not prescribe a transport; implementations decide what a ref means.
type Fetcher interface {
	// Fetch opens ref for reading. The returned ReadCloser must be closed
	// by the caller. Cancellation and deadlines arrive through ctx.
	Fetch(ctx context.Context, ref string) (io.ReadCloser, error)
}

// HTTP fetches refs over HTTP and HTTPS.
type HTTP struct {
	// Client used for requests. http.DefaultClient when nil.
	Client *http.Client
}

func (f *HTTP) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", ref, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &StatusError{URL: ref, StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

// Local opens refs as paths on the local filesystem.
type Local struct{}

func (Local) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(ref))
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return f, nil
}

// Auto routes refs by scheme: http:// and https:// go over the network,
// file:// and plain paths go to the local filesystem. Any other scheme
// fails with ErrUnsupportedScheme.
//
// The zero value is ready to use.
type Auto struct {
	// HTTP handles http:// and https:// refs. Defaults to &HTTP{}.
	HTTP Fetcher
	// Local handles file:// refs and plain paths. Defaults to Local{}.
	Local Fetcher
}

func (a *Auto) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	switch {
	case hasScheme(ref, "http", "https"):
		f := a.HTTP
		if f == nil {
			f = &HTTP{}
		}
		return f.Fetch(ctx, ref)

	case hasScheme(ref, "file"):
		f := a.Local
		if f == nil {
			f = Local{}
		}
		return f.Fetch(ctx, strings.TrimPrefix(ref, "file://"))

	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("fetching %s: %w", ref, ErrUnsupportedScheme)

	default:
		f := a.Local
		if f == nil {
			f = Local{}
		}
		return f.Fetch(ctx, ref)
	}
}

func hasScheme(ref string, schemes ...string) bool {
	for _, s := range schemes {
		if strings.HasPrefix(ref, s+"://") {
			return true
		}
	}

	return false
}
