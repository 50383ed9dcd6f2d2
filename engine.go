package audiomark

import (
	"github.com/atelier-socle/audiomark/internal/chapterfmt"
	"github.com/atelier-socle/audiomark/internal/dispatch"
)

const defaultBufferSize = 64 * 1024

// Read parses metadata, chapters, and duration from the file at path. A
// malformed payload on a recognised ID3v2 frame or MP4 atom is a typed
// error (§7 of the design notes) — it is never caught and silently
// dropped. Only unrecognised frame/atom identifiers round-trip opaquely.
func Read(path string) (AudioFileInfo, error) {
	return dispatch.Read(path)
}

// Write replaces the file's entire tag/atom region with info, discarding
// any existing unrecognised frames or atoms.
func Write(path string, info AudioFileInfo) error {
	return dispatch.Write(path, info, defaultBufferSize)
}

// Modify writes info like Write (a field left empty on info is removed from
// the file, not kept), but preserves unrecognised frames/atoms already
// present in the file.
func Modify(path string, info AudioFileInfo) error {
	return dispatch.Modify(path, info, defaultBufferSize)
}

// Strip removes all metadata from the file. MP3 preserves chapter frames;
// MP4 removes udta and every text/sbtl chapter track — see §4.3/§4.4. A
// chapter-artwork video track already in an MP4 file is not removed.
func Strip(path string) error {
	return dispatch.Strip(path, defaultBufferSize)
}

// ReadChapters returns only the chapter list parsed from path.
func ReadChapters(path string) (ChapterList, error) {
	info, err := dispatch.Read(path)
	if err != nil {
		return ChapterList{}, err
	}
	return info.Chapters, nil
}

// WriteChapters replaces path's chapter list, preserving every other
// recognised and unrecognised field. An empty list removes all chapters.
func WriteChapters(path string, chapters ChapterList) error {
	info, err := dispatch.Read(path)
	if err != nil {
		return err
	}
	info.Chapters = chapters
	return dispatch.Modify(path, info, defaultBufferSize)
}

// ExportChapters renders path's chapter list as format's text encoding. The
// recognised format tags are enumerated in internal/chapterfmt.
func ExportChapters(path string, format string) (string, error) {
	chapters, err := ReadChapters(path)
	if err != nil {
		return "", err
	}
	adapter, err := chapterfmt.Get(format)
	if err != nil {
		return "", err
	}
	return adapter.Export(chapters)
}

// ImportChapters parses text as format and writes the resulting chapter
// list into path, preserving every other field.
func ImportChapters(path string, text string, format string) error {
	adapter, err := chapterfmt.Get(format)
	if err != nil {
		return err
	}
	chapters, err := adapter.Import(text)
	if err != nil {
		return err
	}
	return WriteChapters(path, chapters)
}
