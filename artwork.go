package audiomark

import "github.com/atelier-socle/audiomark/internal/types"

// Artwork is an alias to types.Artwork for backwards compatibility.
// Re-exporting from internal/types to maintain public API.
type Artwork = types.Artwork

// ArtworkFormat is an alias to types.ArtworkFormat for backwards compatibility.
type ArtworkFormat = types.ArtworkFormat

const (
	ArtworkFormatUnknown = types.ArtworkFormatUnknown
	ArtworkFormatJPEG    = types.ArtworkFormatJPEG
	ArtworkFormatPNG     = types.ArtworkFormatPNG
)

// NewArtwork constructs an Artwork from raw bytes and an explicit format.
func NewArtwork(data []byte, format ArtworkFormat) Artwork {
	return types.NewArtwork(data, format)
}

// DetectArtwork constructs an Artwork by sniffing magic bytes, returning
// UnrecognizedArtworkFormatError if neither JPEG nor PNG is recognised.
func DetectArtwork(data []byte) (Artwork, error) {
	return types.DetectArtwork(data)
}
