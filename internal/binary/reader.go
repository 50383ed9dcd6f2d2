// Package binary implements the in-memory byte cursor used by both the
// ID3v2 and MP4 codecs: big-endian integer reads, the ID3v2 syncsafe
// integer codec, and the per-encoding string readers each frame/atom
// grammar requires.
package binary

import (
	"encoding/binary"

	"github.com/atelier-socle/audiomark/internal/types"
)

// Reader is a bounds-checked cursor over an immutable byte buffer.
type Reader struct {
	buf []byte
	pos int64
}

// NewReader wraps buf for sequential, bounds-checked reads.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the total buffer length.
func (r *Reader) Len() int64 { return int64(len(r.buf)) }

// Pos returns the current cursor position.
func (r *Reader) Pos() int64 { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 { return int64(len(r.buf)) - r.pos }

func (r *Reader) require(n int64) error {
	if r.pos+n > int64(len(r.buf)) {
		return &types.UnexpectedEndError{
			Offset:    r.pos,
			Requested: n,
			Available: int64(len(r.buf)) - r.pos,
		}
	}
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int64) error {
	if err := r.require(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Seek moves the cursor to an absolute position. The end position
// (equal to length) is valid.
func (r *Reader) Seek(absolute int64) error {
	if absolute < 0 || absolute > int64(len(r.buf)) {
		return &types.SeekOutOfBoundsError{Offset: absolute, Size: int64(len(r.buf))}
	}
	r.pos = absolute
	return nil
}

// Bytes returns a copy of the next n bytes and advances the cursor.
func (r *Reader) Bytes(n int64) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// PeekBytes returns a copy of the next n bytes without advancing the cursor.
func (r *Reader) PeekBytes(n int64) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	return out, nil
}

// U8 reads an unsigned 8-bit big-endian integer.
func (r *Reader) U8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// U16 reads an unsigned 16-bit big-endian integer.
func (r *Reader) U16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads an unsigned 32-bit big-endian integer.
func (r *Reader) U32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// U64 reads an unsigned 64-bit big-endian integer.
func (r *Reader) U64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// Syncsafe32 reads a 4-byte ID3v2 syncsafe integer, reassembling 28 payload
// bits. Fails if any byte has its high bit set.
func (r *Reader) Syncsafe32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return DecodeSyncsafe(b)
}

// DecodeSyncsafe reassembles a 28-bit value from 4 syncsafe bytes.
func DecodeSyncsafe(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, &types.InvalidSyncsafeIntegerError{}
	}
	var v uint32
	for _, c := range b {
		if c&0x80 != 0 {
			return 0, &types.InvalidSyncsafeIntegerError{}
		}
		v = (v << 7) | uint32(c)
	}
	return v, nil
}

// Latin1String reads exactly n bytes and decodes them as Latin-1.
func (r *Reader) Latin1String(n int64) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return DecodeLatin1(b), nil
}

// UTF8String reads exactly n bytes as UTF-8.
func (r *Reader) UTF8String(n int64) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NullTerminatedLatin1 reads bytes up to (and consuming) a single zero byte,
// or to the end of the buffer if no terminator is found.
func (r *Reader) NullTerminatedLatin1() (string, error) {
	start := r.pos
	for r.pos < int64(len(r.buf)) {
		if r.buf[r.pos] == 0 {
			s := DecodeLatin1(r.buf[start:r.pos])
			r.pos++
			return s, nil
		}
		r.pos++
	}
	return DecodeLatin1(r.buf[start:r.pos]), nil
}

// NullTerminatedUTF16 reads bytes up to (and consuming) a two-byte zero
// terminator aligned on the pair boundary relative to start, or to the end
// of the buffer if none is found.
func (r *Reader) NullTerminatedUTF16() ([]byte, error) {
	start := r.pos
	p := r.pos
	for p+1 < int64(len(r.buf)) {
		if r.buf[p] == 0 && r.buf[p+1] == 0 {
			b := r.buf[start:p]
			r.pos = p + 2
			return b, nil
		}
		p += 2
	}
	r.pos = int64(len(r.buf))
	return r.buf[start:r.pos], nil
}

// DecodeLatin1 decodes Latin-1 (ISO-8859-1) bytes into a Go string, one
// byte per code point.
func DecodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
