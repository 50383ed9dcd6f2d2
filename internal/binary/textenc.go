package binary

import (
	"golang.org/x/text/encoding/unicode"
)

// TextEncoding enumerates the four ID3v2 text encodings.
type TextEncoding byte

const (
	EncodingLatin1      TextEncoding = 0
	EncodingUTF16BOM     TextEncoding = 1
	EncodingUTF16BE      TextEncoding = 2
	EncodingUTF8         TextEncoding = 3
)

// NullWidth returns the terminator width in bytes for this encoding.
func (e TextEncoding) NullWidth() int {
	switch e {
	case EncodingUTF16BOM, EncodingUTF16BE:
		return 2
	default:
		return 1
	}
}

var utf16LEBOM = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
var utf16BENoBOM = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// EncodeUTF16BOM encodes s as UTF-16LE with a leading byte-order mark, the
// wire form ID3v2 calls "UTF-16 with BOM" (encoding byte 0x01).
func EncodeUTF16BOM(s string) ([]byte, error) {
	return utf16LEBOM.NewEncoder().Bytes([]byte(s))
}

// DecodeUTF16BOM decodes a UTF-16 buffer carrying its own BOM (LE or BE).
func DecodeUTF16BOM(b []byte) (string, error) {
	out, err := unicode.BOMOverride(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()).Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EncodeUTF16BE encodes s as big-endian UTF-16 without a BOM.
func EncodeUTF16BE(s string) ([]byte, error) {
	return utf16BENoBOM.NewEncoder().Bytes([]byte(s))
}

// DecodeUTF16BE decodes a big-endian UTF-16 buffer without a BOM.
func DecodeUTF16BE(b []byte) (string, error) {
	out, err := utf16BENoBOM.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeText decodes payload according to the declared text encoding byte.
func DecodeText(enc TextEncoding, b []byte) (string, error) {
	switch enc {
	case EncodingLatin1:
		return DecodeLatin1(b), nil
	case EncodingUTF16BOM:
		return DecodeUTF16BOM(b)
	case EncodingUTF16BE:
		return DecodeUTF16BE(b)
	case EncodingUTF8:
		return string(b), nil
	default:
		return "", &InvalidEncodingByteError{Byte: byte(enc)}
	}
}

// EncodeText encodes s according to the declared text encoding byte.
func EncodeText(enc TextEncoding, s string) ([]byte, error) {
	switch enc {
	case EncodingLatin1:
		return EncodeLatin1(s), nil
	case EncodingUTF16BOM:
		return EncodeUTF16BOM(s)
	case EncodingUTF16BE:
		return EncodeUTF16BE(s)
	case EncodingUTF8:
		return []byte(s), nil
	default:
		return nil, &InvalidEncodingByteError{Byte: byte(enc)}
	}
}

// InvalidEncodingByteError is returned for an out-of-range encoding byte.
type InvalidEncodingByteError struct{ Byte byte }

func (e *InvalidEncodingByteError) Error() string {
	return "binary: invalid text encoding byte"
}

// EncodeLatin1 encodes s as Latin-1, one byte per code point ≤ 0xFF.
// Code points outside that range are silently dropped, matching the
// fail-silent-to-empty-bytes Latin-1 path ID3v2 writers fall back to.
func EncodeLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			continue
		}
		out = append(out, byte(r))
	}
	return out
}

// IsLatin1Representable reports whether every code point in s fits in a
// single Latin-1 byte.
func IsLatin1Representable(s string) bool {
	for _, r := range s {
		if r > 0xFF {
			return false
		}
	}
	return true
}
