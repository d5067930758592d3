// Package magic checks that the leading bytes of a file match the signature
// of the media type it claims to be.
package magic

import "bytes"

const (
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeGIF  = "image/gif"
	TypeWEBP = "image/webp"
)

// HeadSize is the number of leading bytes needed to evaluate every rule.
const HeadSize = 12

type rule struct {
	offset int
	bytes  []byte
}

var signatures = map[string][]rule{
	TypePNG:  {{offset: 0, bytes: []byte{0x89, 'P', 'N', 'G'}}},
	TypeJPEG: {{offset: 0, bytes: []byte{0xff, 0xd8, 0xff}}},
	TypeGIF:  {{offset: 0, bytes: []byte{'G', 'I', 'F', '8'}}},
	TypeWEBP: {
		{offset: 0, bytes: []byte("RIFF")},
		{offset: 8, bytes: []byte("WEBP")},
	},
}

// Verify reports whether head satisfies every signature rule registered for
// mediaType. Unknown media types never verify.
func Verify(head []byte, mediaType string) bool {
	rules, ok := signatures[mediaType]
	if !ok {
		return false
	}
	for _, r := range rules {
		end := r.offset + len(r.bytes)
		if end > len(head) {
			return false
		}
		if !bytes.Equal(head[r.offset:end], r.bytes) {
			return false
		}
	}
	return true
}

// Supported reports whether mediaType has a signature entry.
func Supported(mediaType string) bool {
	_, ok := signatures[mediaType]
	return ok
}
