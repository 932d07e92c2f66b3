// SPDX-License-Identifier: EPL-2.0

package audio

import "bytes"

// DetectFormat sniffs the leading bytes of an encoded clip and reports the
// registry key of its container format: "wav", "ogg", "aiff", or "mp3".
// It covers the containers this module ships decoders for; anything else
// reports false.
func DetectFormat(head []byte) (string, bool) {
	switch {
	case len(head) >= 12 &&
		bytes.Equal(head[0:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WAVE")):
		return "wav", true

	case len(head) >= 4 && bytes.Equal(head[0:4], []byte("OggS")):
		return "ogg", true

	case len(head) >= 12 &&
		bytes.Equal(head[0:4], []byte("FORM")) &&
		(bytes.Equal(head[8:12], []byte("AIFF")) || bytes.Equal(head[8:12], []byte("AIFC"))):
		return "aiff", true

	case len(head) >= 3 && bytes.Equal(head[0:3], []byte("ID3")):
		return "mp3", true

	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// Bare MPEG frame sync, no ID3 tag in front.
		return "mp3", true
	}

	return "", false
}
