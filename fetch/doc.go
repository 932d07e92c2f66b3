// SPDX-License-Identifier: EPL-2.0

// Package fetch retrieves the encoded bytes behind clip references.
//
// A ref is whatever string a bank was given for a clip: a URL, a filesystem
// path, or anything a custom Fetcher knows how to resolve. This package
// ships three implementations:
//
//   - HTTP fetches http:// and https:// refs with a standard client.
//     Non-2xx responses fail with a *StatusError carrying the code.
//   - Local opens refs as filesystem paths.
//   - Auto routes by scheme: network refs to HTTP, file:// refs and plain
//     paths to Local, anything else to ErrUnsupportedScheme.
//
// Auto is the default transport of a bank; its zero value is ready to use:
//
//	var f fetch.Auto
//	rc, err := f.Fetch(ctx, "https://example.com/kick.wav")
//
// Custom transports (object stores, embedded assets, caches) implement the
// one-method Fetcher interface and are plugged into a bank's Config.
//
// All fetches take a context; banks use it to cancel in-flight loads when
// they close and to enforce per-load timeouts.
package fetch
