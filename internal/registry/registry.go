// Package registry manages format-specific codecs for audio file types,
// mirroring the teacher's parser/writer registry but extended with
// modify and strip slots since every codec here supports all four.
package registry

import "github.com/atelier-socle/audiomark/internal/types"

// Reader parses metadata, chapters, and duration out of a file.
type Reader interface {
	Read(path string) (types.AudioFileInfo, error)
}

// Writer replaces a file's tag/atom region wholesale.
type Writer interface {
	Write(path string, info types.AudioFileInfo, bufferSize int) error
}

// Modifier replaces recognised fields while preserving opaque frames/atoms.
type Modifier interface {
	Modify(path string, info types.AudioFileInfo, bufferSize int) error
}

// Stripper removes metadata, per the format's own strip semantics.
type Stripper interface {
	Strip(path string, bufferSize int) error
}

// Codec bundles all four operations for one container format.
type Codec interface {
	Reader
	Writer
	Modifier
	Stripper
}

var codecs = make(map[types.Format]Codec)

// Register registers a codec for a format. Called by format packages from
// an init function.
func Register(format types.Format, codec Codec) {
	codecs[format] = codec
}

// Get returns the codec registered for a format, or nil if none is.
func Get(format types.Format) Codec {
	return codecs[format]
}
