package audiomark

import (
	"github.com/atelier-socle/audiomark/internal/dispatch"
	"github.com/atelier-socle/audiomark/internal/types"
)

// Format is an alias to types.Format for backwards compatibility.
type Format = types.Format

const (
	FormatUnknown = types.FormatUnknown
	FormatMP3     = types.FormatMP3
	FormatM4A     = types.FormatM4A
)

// DetectFormat identifies the container format of the file at path by
// leading-byte magic, falling back to its extension.
func DetectFormat(path string) (Format, error) {
	return dispatch.DetectFormat(path)
}
