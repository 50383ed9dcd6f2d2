package id3v2

import "github.com/atelier-socle/audiomark/internal/binary"

const DefaultPadding = 2048

// Assemble lays out a complete tag: header, frame bytes, then padding zero
// bytes. Size covers frames+padding, not the 10-byte header.
func Assemble(frameBytes []byte, version Version, padding int) []byte {
	if padding < 0 {
		padding = 0
	}
	header := Header{Version: version, TagSize: uint32(len(frameBytes) + padding)}
	w := binary.NewWriter()
	w.Append(header.Bytes())
	w.Append(frameBytes)
	w.Fill(0, padding)
	return w.Bytes()
}

// MinTagSize is the tag-region size (header + frames, zero padding).
func MinTagSize(frameBytes []byte) int64 {
	return HeaderSize + int64(len(frameBytes))
}

// newAppendWriter returns a Writer pre-seeded with existing frame bytes, so
// further frames (e.g. preserved opaque frames) can be appended to it.
func newAppendWriter(existing []byte) *binary.Writer {
	w := binary.NewWriter()
	w.Append(existing)
	return w
}
