// SPDX-License-Identifier: EPL-2.0

package soundbank

import (
	"github.com/ik5/soundbank/audio"
	"github.com/ik5/soundbank/formats/aiff"
	"github.com/ik5/soundbank/formats/mp3"
	"github.com/ik5/soundbank/formats/vorbis"
	"github.com/ik5/soundbank/formats/wav"
)

// DefaultFormats builds a decoder registry covering every format this
// module ships, keyed by the usual file extensions.
func DefaultFormats() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}
