package mp4

import "github.com/atelier-socle/audiomark/internal/types"

// Result is everything an mp4 Read call produces.
type Result struct {
	Info types.AudioFileInfo
}

// Read opens path, validates the ftyp brand, and extracts metadata,
// chapters, and duration from the atom tree.
func Read(path string) (Result, error) {
	doc, err := OpenDocument(path)
	if err != nil {
		return Result{}, err
	}
	defer doc.Close()

	metadata, err := doc.ExtractMetadata()
	if err != nil {
		return Result{}, err
	}

	chapters, err := doc.ExtractChapters()
	if err != nil {
		return Result{}, err
	}

	duration, err := doc.Duration()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Info: types.AudioFileInfo{
			Metadata: metadata,
			Chapters: chapters,
			Duration: duration,
		},
	}, nil
}
