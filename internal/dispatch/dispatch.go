// Package dispatch identifies which container codec (ID3v2 or MP4) owns a
// file, and routes read/write/modify/strip calls to it through the codec
// registry. The blank imports below are what populate that registry; every
// format package registers itself from an init function.
package dispatch

import (
	"os"
	"strings"

	_ "github.com/atelier-socle/audiomark/internal/id3v2"
	_ "github.com/atelier-socle/audiomark/internal/mp4"
	"github.com/atelier-socle/audiomark/internal/registry"
	"github.com/atelier-socle/audiomark/internal/types"
)

// DetectFormat identifies the container by leading-byte magic first, falling
// back to file-extension heuristics.
func DetectFormat(path string) (types.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.FormatUnknown, &types.FileNotFoundError{Path: path}
		}
		return types.FormatUnknown, &types.CannotOpenError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	var head [12]byte
	n, _ := f.Read(head[:])

	if n >= 3 && string(head[0:3]) == "ID3" {
		return types.FormatMP3, nil
	}
	if n >= 8 && string(head[4:8]) == "ftyp" {
		return types.FormatM4A, nil
	}

	ext := strings.ToLower(path[strings.LastIndex(path, ".")+1:])
	switch ext {
	case "mp3":
		return types.FormatMP3, nil
	case "m4a", "m4b", "aax":
		return types.FormatM4A, nil
	}

	return types.FormatUnknown, &types.UnsupportedFormatError{Path: path, Reason: "unrecognised container"}
}

func codecFor(path string) (registry.Codec, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	c := registry.Get(format)
	if c == nil {
		return nil, &types.UnsupportedFormatError{Path: path, Reason: "no codec registered for " + format.String()}
	}
	return c, nil
}

// Read routes to the codec identified for path. A malformed payload on a
// recognised frame/atom propagates as a typed error (§7) rather than being
// dropped; only unrecognised frame/atom identifiers round-trip silently.
func Read(path string) (types.AudioFileInfo, error) {
	c, err := codecFor(path)
	if err != nil {
		return types.AudioFileInfo{}, err
	}
	return c.Read(path)
}

// Write routes a full tag write to the codec identified for path.
func Write(path string, info types.AudioFileInfo, bufferSize int) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	return c.Write(path, info, bufferSize)
}

// Modify routes a preserve-unknowns write to the codec identified for path.
func Modify(path string, info types.AudioFileInfo, bufferSize int) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	return c.Modify(path, info, bufferSize)
}

// Strip removes metadata for the codec identified for path. MP3 preserves
// chapters (§4.3); MP4 removes udta and every text/sbtl chapter track, but
// not a chapter-artwork video track (§4.4).
func Strip(path string, bufferSize int) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	return c.Strip(path, bufferSize)
}
