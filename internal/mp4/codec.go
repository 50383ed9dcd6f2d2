package mp4

import (
	"github.com/atelier-socle/audiomark/internal/registry"
	"github.com/atelier-socle/audiomark/internal/types"
)

// codec adapts the package-level Read/Write/Modify/Strip functions to
// registry.Codec.
type codec struct{}

func (codec) Read(path string) (types.AudioFileInfo, error) {
	res, err := Read(path)
	if err != nil {
		return types.AudioFileInfo{}, err
	}
	return res.Info, nil
}

func (codec) Write(path string, info types.AudioFileInfo, bufferSize int) error {
	return Write(path, info.Metadata, info.Chapters, bufferSize)
}

func (codec) Modify(path string, info types.AudioFileInfo, bufferSize int) error {
	return Modify(path, info.Metadata, info.Chapters, bufferSize)
}

func (codec) Strip(path string, bufferSize int) error {
	return Strip(path, bufferSize)
}

func init() {
	registry.Register(types.FormatM4A, codec{})
}
