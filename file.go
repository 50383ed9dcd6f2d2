package audiomark

import (
	"fmt"
	"io"
	"os"

	"github.com/atelier-socle/audiomark/internal/dispatch"
)

// AudioFile is an opened audio file with its parsed metadata, chapters, and
// duration held in memory. It holds no open file handle between calls —
// every format codec in this library reads and writes a whole file per
// call, per spec.md §4.3/§4.4 — so Close exists for API symmetry with
// callers that scope a file's lifetime with defer.
type AudioFile struct {
	Path string
	Info AudioFileInfo

	opts *openOptions
}

// Open reads an audio file's metadata, chapters, and duration.
//
// Supported formats: MP3 (ID3v2.3/ID3v2.4) and M4A/M4B/AAX (ISO BMFF atoms).
// A malformed payload on a recognised frame or atom is a typed error (§7);
// Open never returns a partial result silently.
//
// Example:
//
//	file, err := audiomark.Open("song.mp3")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//	fmt.Println(file.Info.Metadata.Title)
func Open(path string, opts ...OpenOption) (*AudioFile, error) {
	options := defaultOpenOptions()
	for _, opt := range opts {
		opt(options)
	}

	info, err := dispatch.Read(path)
	if err != nil {
		return nil, err
	}

	if options.maxArtworkSize > 0 {
		applyMaxArtworkSize(&info, options.maxArtworkSize)
	}

	return &AudioFile{Path: path, Info: info, opts: options}, nil
}

func applyMaxArtworkSize(info *AudioFileInfo, limit int) {
	if info.Metadata.Artwork != nil && info.Metadata.Artwork.Size() > limit {
		info.Metadata.Artwork = nil
	}
	if info.Chapters.Len() == 0 {
		return
	}
	items := info.Chapters.Items()
	changed := false
	for i, ch := range items {
		if ch.Artwork != nil && ch.Artwork.Size() > limit {
			items[i].Artwork = nil
			changed = true
		}
	}
	if changed {
		info.Chapters = NewChapterList(items)
	}
}

// Save writes the AudioFile's current Info back to Path, preserving any
// unrecognised frames/atoms already on disk (equivalent to Modify).
//
// Example:
//
//	file.Info.Metadata.Title = "New Title"
//	if err := file.Save(audiomark.WithBackup(".bak")); err != nil {
//	    return err
//	}
func (f *AudioFile) Save(opts ...SaveOption) error {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.backupSuffix != "" {
		if err := copyFile(f.Path, f.Path+options.backupSuffix); err != nil {
			return fmt.Errorf("backup before save: %w", err)
		}
	}

	if err := Modify(f.Path, f.Info); err != nil {
		return err
	}

	if options.validate {
		info, err := dispatch.Read(f.Path)
		if err != nil {
			return fmt.Errorf("validate after save: %w", err)
		}
		f.Info = info
	}

	return nil
}

// Close releases any in-memory state held by f. It never returns an error;
// the signature matches io.Closer for callers that defer file.Close().
func (f *AudioFile) Close() error {
	f.Info = AudioFileInfo{}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
