package id3v2

import (
	"os"

	"github.com/atelier-socle/audiomark/internal/rewrite"
	"github.com/atelier-socle/audiomark/internal/streamio"
	"github.com/atelier-socle/audiomark/internal/types"
)

// Result is everything a Read call produces.
type Result struct {
	Info    types.AudioFileInfo
	Unknown []RawFrame
	Version Version
}

// Read parses the ID3v2 tag (if any) at the head of path. A malformed
// payload on a recognised frame is a hard error (§7); it is never silently
// dropped.
func Read(path string) (Result, error) {
	fr, err := streamio.OpenFileReader(path)
	if err != nil {
		return Result{}, err
	}
	defer fr.Close()

	headerBuf, err := fr.Read(0, min64(HeaderSize, fr.Size()))
	if err != nil {
		return Result{}, err
	}
	if !HasTag(headerBuf) {
		return Result{}, &types.NoTagError{}
	}

	header, err := ParseHeader(headerBuf)
	if err != nil {
		return Result{}, err
	}

	payload, err := fr.Read(HeaderSize, int64(header.TagSize))
	if err != nil {
		return Result{}, err
	}

	frames, err := ParseFrames(payload, header.Version)
	if err != nil {
		return Result{}, err
	}

	metadata, chapters, unknown, err := Decode(frames, header.Version)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Info: types.AudioFileInfo{
			Metadata: metadata,
			Chapters: chapters,
		},
		Unknown: unknown,
		Version: header.Version,
	}, nil
}

func min64(a int64, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// existingTagRegion returns the current tag-region size (0 if absent) and,
// when present, the parsed header.
func existingTagRegion(fr *streamio.FileReader) (int64, *Header, error) {
	if fr.Size() < HeaderSize {
		return 0, nil, nil
	}
	headerBuf, err := fr.Read(0, HeaderSize)
	if err != nil {
		return 0, nil, err
	}
	if !HasTag(headerBuf) {
		return 0, nil, nil
	}
	h, err := ParseHeader(headerBuf)
	if err != nil {
		return 0, nil, err
	}
	return h.TagRegionSize(), &h, nil
}

// Write implements the §4.3 writing strategy: in-place when the existing
// tag region has enough padding room, atomic sidecar rewrite otherwise.
func Write(path string, m types.AudioMetadata, chapters types.ChapterList, version Version, bufferSize int) error {
	return writeTag(path, m, chapters, version, bufferSize)
}

func writeTag(path string, m types.AudioMetadata, chapters types.ChapterList, version Version, bufferSize int) error {
	if bufferSize == 0 {
		bufferSize = streamio.DefaultChunkSize
	}

	fr, err := streamio.OpenFileReader(path)
	if err != nil {
		return err
	}
	defer fr.Close()

	existingSpace, _, err := existingTagRegion(fr)
	if err != nil {
		return err
	}

	frameBytes, err := Encode(m, chapters, version)
	if err != nil {
		return err
	}
	minTagSize := MinTagSize(frameBytes)

	if existingSpace >= minTagSize {
		padding := int(existingSpace - minTagSize)
		newTag := Assemble(frameBytes, version, padding)

		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return &types.CannotOpenError{Path: path, Reason: err.Error()}
		}
		defer f.Close()
		return rewrite.InPlaceWrite(f, newTag)
	}

	newTag := Assemble(frameBytes, version, DefaultPadding)
	audioFrom := existingSpace
	audioCount := fr.Size() - audioFrom

	return rewrite.AtomicReplace(path, func(out *os.File) error {
		if _, err := out.Write(newTag); err != nil {
			return err
		}
		w := streamio.NewFileWriterFromHandle(out, path)
		return w.CopyChunked(fr, audioFrom, audioCount, bufferSize)
	})
}

// Modify preserves every opaque frame from the existing tag, appending them
// after the freshly emitted frames. Degrades to Write if no tag exists.
func Modify(path string, m types.AudioMetadata, chapters types.ChapterList, version Version, bufferSize int) error {
	existing, err := Read(path)
	if err != nil {
		if _, ok := err.(*types.NoTagError); ok {
			return Write(path, m, chapters, version, bufferSize)
		}
		return err
	}

	frameBytes, err := Encode(m, chapters, version)
	if err != nil {
		return err
	}
	w := newAppendWriter(frameBytes)
	for _, f := range existing.Unknown {
		EncodeFrame(w, f.ID, version, f.Flags, f.Data)
	}

	return writeTagBytes(path, w.Bytes(), version, bufferSize)
}

// Strip removes the tag, except: if the existing tag contained chapters, a
// new minimal tag containing only CTOC+CHAP frames is written instead. This
// mirrors the spec's deliberately surprising MP3-strip behaviour (§9). With
// no chapters to preserve, the tag region is removed entirely — per §4.3 the
// file begins directly with the audio payload, with zero ID3v2 header bytes
// left behind, regardless of how much padding the existing tag region had.
func Strip(path string, bufferSize int) error {
	existing, err := Read(path)
	if err != nil {
		if _, ok := err.(*types.NoTagError); ok {
			return nil
		}
		return err
	}

	if existing.Info.Chapters.Len() > 0 {
		w := newAppendWriter(nil)
		encodeChapters(w, existing.Version, existing.Info.Chapters)
		return writeTagBytes(path, w.Bytes(), existing.Version, bufferSize)
	}

	return stripTagRegion(path, bufferSize)
}

// stripTagRegion drops the tag region outright: no header, no padding, no
// frames. Always a sidecar rewrite — shrinking the file by the whole tag
// region can't be done by writing in place.
func stripTagRegion(path string, bufferSize int) error {
	if bufferSize == 0 {
		bufferSize = streamio.DefaultChunkSize
	}

	fr, err := streamio.OpenFileReader(path)
	if err != nil {
		return err
	}
	defer fr.Close()

	existingSpace, _, err := existingTagRegion(fr)
	if err != nil {
		return err
	}

	audioFrom := existingSpace
	audioCount := fr.Size() - audioFrom

	return rewrite.AtomicReplace(path, func(out *os.File) error {
		w := streamio.NewFileWriterFromHandle(out, path)
		return w.CopyChunked(fr, audioFrom, audioCount, bufferSize)
	})
}

func writeTagBytes(path string, frameBytes []byte, version Version, bufferSize int) error {
	if bufferSize == 0 {
		bufferSize = streamio.DefaultChunkSize
	}

	fr, err := streamio.OpenFileReader(path)
	if err != nil {
		return err
	}
	defer fr.Close()

	existingSpace, _, err := existingTagRegion(fr)
	if err != nil {
		return err
	}
	minTagSize := MinTagSize(frameBytes)

	if existingSpace >= minTagSize {
		padding := int(existingSpace - minTagSize)
		newTag := Assemble(frameBytes, version, padding)
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return &types.CannotOpenError{Path: path, Reason: err.Error()}
		}
		defer f.Close()
		return rewrite.InPlaceWrite(f, newTag)
	}

	newTag := Assemble(frameBytes, version, DefaultPadding)
	audioFrom := existingSpace
	audioCount := fr.Size() - audioFrom

	return rewrite.AtomicReplace(path, func(out *os.File) error {
		if _, err := out.Write(newTag); err != nil {
			return err
		}
		w := streamio.NewFileWriterFromHandle(out, path)
		return w.CopyChunked(fr, audioFrom, audioCount, bufferSize)
	})
}
