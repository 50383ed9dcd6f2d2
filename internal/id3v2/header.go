// Package id3v2 implements the ID3v2.3/v2.4 tag codec: header and frame
// parsing, frame<->model conversion in both directions, tag assembly with
// padding, and the in-place-vs-rewrite write strategy.
package id3v2

import (
	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

const HeaderSize = 10

// Version identifies the wire revision.
type Version byte

const (
	Version3 Version = 3
	Version4 Version = 4
)

// Header is the parsed 10-byte ID3v2 tag header.
type Header struct {
	Version            Version
	Revision           byte
	Unsynchronized     bool
	ExtendedHeader     bool
	Experimental       bool
	FooterPresent      bool
	TagSize            uint32 // excludes the 10-byte header
}

// HasTag reports whether buf begins with a recognisable ID3v2 header.
// A file under 10 bytes or lacking the "ID3" marker has no tag — that is
// not an error for strip. ParseHeader reports a buffer under 10 bytes as
// InvalidHeaderError and a missing marker as NoTagError.
func HasTag(buf []byte) bool {
	return len(buf) >= HeaderSize && buf[0] == 'I' && buf[1] == 'D' && buf[2] == '3'
}

// ParseHeader parses the first 10 bytes of buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, &types.InvalidHeaderError{Reason: "file shorter than 10 bytes"}
	}
	if buf[0] != 'I' || buf[1] != 'D' || buf[2] != '3' {
		return Header{}, &types.NoTagError{}
	}

	major := buf[3]
	minor := buf[4]
	flags := buf[5]

	var version Version
	switch major {
	case 3:
		version = Version3
	case 4:
		version = Version4
	default:
		return Header{}, &types.UnsupportedVersionError{Major: major, Minor: minor}
	}

	size, err := binary.DecodeSyncsafe(buf[6:10])
	if err != nil {
		return Header{}, &types.InvalidSyncsafeIntegerError{}
	}

	h := Header{
		Version:        version,
		Revision:       minor,
		Unsynchronized: flags&0x80 != 0,
		ExtendedHeader: flags&0x40 != 0,
		Experimental:   flags&0x20 != 0,
		TagSize:        size,
	}
	if version == Version4 {
		h.FooterPresent = flags&0x10 != 0
	}
	return h, nil
}

// Bytes renders the 10-byte header.
func (h Header) Bytes() []byte {
	w := binary.NewWriter()
	w.Append([]byte("ID3"))
	w.U8(byte(h.Version))
	w.U8(h.Revision)

	var flags byte
	if h.Unsynchronized {
		flags |= 0x80
	}
	if h.ExtendedHeader {
		flags |= 0x40
	}
	if h.Experimental {
		flags |= 0x20
	}
	if h.Version == Version4 && h.FooterPresent {
		flags |= 0x10
	}
	w.U8(flags)
	w.Syncsafe32(h.TagSize)
	return w.Bytes()
}

// TagRegionSize is the total size (header + tag payload) occupied on disk.
func (h Header) TagRegionSize() int64 {
	return HeaderSize + int64(h.TagSize)
}
