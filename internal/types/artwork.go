package types

import "fmt"

// ArtworkFormat is the image encoding carried by an Artwork value.
type ArtworkFormat int

const (
	ArtworkFormatUnknown ArtworkFormat = iota
	ArtworkFormatJPEG
	ArtworkFormatPNG
)

func (f ArtworkFormat) String() string {
	switch f {
	case ArtworkFormatJPEG:
		return "jpeg"
	case ArtworkFormatPNG:
		return "png"
	default:
		return "unknown"
	}
}

// UnrecognizedArtworkFormatError is returned when magic-byte sniffing finds
// neither a JPEG nor a PNG signature.
type UnrecognizedArtworkFormatError struct{}

func (e *UnrecognizedArtworkFormatError) Error() string {
	return "artwork: unrecognized image format"
}

// Artwork is an immutable pair of raw image bytes and a format tag.
type Artwork struct {
	data   []byte
	format ArtworkFormat
}

// NewArtwork constructs an Artwork from bytes and an explicit format.
func NewArtwork(data []byte, format ArtworkFormat) Artwork {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Artwork{data: cp, format: format}
}

// DetectArtwork constructs an Artwork by sniffing magic bytes.
func DetectArtwork(data []byte) (Artwork, error) {
	format := sniffArtworkFormat(data)
	if format == ArtworkFormatUnknown {
		return Artwork{}, &UnrecognizedArtworkFormatError{}
	}
	return NewArtwork(data, format), nil
}

func sniffArtworkFormat(data []byte) ArtworkFormat {
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return ArtworkFormatJPEG
	}
	if len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return ArtworkFormatPNG
	}
	return ArtworkFormatUnknown
}

// Data returns a copy of the raw image bytes.
func (a Artwork) Data() []byte {
	cp := make([]byte, len(a.data))
	copy(cp, a.data)
	return cp
}

// Format returns the image format tag.
func (a Artwork) Format() ArtworkFormat { return a.format }

// Size returns the byte length of the raw image data.
func (a Artwork) Size() int { return len(a.data) }

// Equal reports whether two Artwork values carry identical bytes and format.
func (a Artwork) Equal(other Artwork) bool {
	if a.format != other.format || len(a.data) != len(other.data) {
		return false
	}
	for i := range a.data {
		if a.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

func (a Artwork) String() string {
	return fmt.Sprintf("Artwork(%s, %d bytes)", a.format, len(a.data))
}
