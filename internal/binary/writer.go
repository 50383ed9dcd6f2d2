package binary

import "encoding/binary"

// Writer accumulates an owned byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Append writes raw bytes verbatim.
func (w *Writer) Append(b []byte) { w.buf = append(w.buf, b...) }

// U8 writes an unsigned 8-bit integer.
func (w *Writer) U8(v uint8) { w.buf = append(w.buf, v) }

// U16 writes a big-endian unsigned 16-bit integer.
func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U32 writes a big-endian unsigned 32-bit integer.
func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U64 writes a big-endian unsigned 64-bit integer.
func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// Syncsafe32 packs a 28-bit value into 4 syncsafe bytes, high bit of each
// byte cleared.
func (w *Writer) Syncsafe32(v uint32) { w.Append(EncodeSyncsafe(v)) }

// EncodeSyncsafe packs a 28-bit value into 4 syncsafe bytes.
func EncodeSyncsafe(v uint32) []byte {
	return []byte{
		byte((v >> 21) & 0x7F),
		byte((v >> 14) & 0x7F),
		byte((v >> 7) & 0x7F),
		byte(v & 0x7F),
	}
}

// Fill appends n repetitions of b.
func (w *Writer) Fill(b byte, n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, b)
	}
}

// Latin1String writes s Latin-1 encoded.
func (w *Writer) Latin1String(s string) { w.Append(EncodeLatin1(s)) }

// UTF8String writes s as UTF-8.
func (w *Writer) UTF8String(s string) { w.Append([]byte(s)) }

// NullTerminated writes s in the given encoding followed by that
// encoding's null terminator.
func (w *Writer) NullTerminated(enc TextEncoding, s string) error {
	b, err := EncodeText(enc, s)
	if err != nil {
		return err
	}
	w.Append(b)
	w.Fill(0, enc.NullWidth())
	return nil
}
