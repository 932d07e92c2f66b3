// SPDX-License-Identifier: EPL-2.0

package soundbank

import "github.com/ik5/soundbank/audio"

type sourceKind int

const (
	kindNone sourceKind = iota
	kindRef
	kindRaw
	kindDecoded
	kindClip
)

// Source names where a clip's audio comes from. Build one with Ref,
// Raw, Decoded or FromClip. The zero value carries nothing and fails
// the load with ErrNoSource.
type Source struct {
	kind sourceKind
	ref  string
	raw  []byte
	buf  *audio.Buffer
	clip *Clip
}

// Ref points at a fetchable resource: an http(s) URL, a file:// URL or
// a plain filesystem path. The bank's BaseURL, when set, is prepended.
// Loading is asynchronous.
func Ref(ref string) Source {
	return Source{kind: kindRef, ref: ref}
}

// Raw carries an encoded file image (WAV, MP3, Ogg Vorbis or AIFF
// bytes). The format is picked by sniffing the leading bytes. Decoding
// is asynchronous.
func Raw(data []byte) Source {
	return Source{kind: kindRaw, raw: data}
}

// Decoded carries an already-decoded buffer. The clip completes
// immediately and contributes no pending work to the loading round.
func Decoded(buf *audio.Buffer) Source {
	return Source{kind: kindDecoded, buf: buf}
}

// FromClip adopts another clip's outcome, sharing its buffer under a
// new name, possibly in a different bank. An already-settled clip
// completes immediately; a pending one is joined asynchronously.
func FromClip(c *Clip) Source {
	return Source{kind: kindClip, clip: c}
}
