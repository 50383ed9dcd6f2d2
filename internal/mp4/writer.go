package mp4

import (
	"os"

	"github.com/atelier-socle/audiomark/internal/rewrite"
	"github.com/atelier-socle/audiomark/internal/streamio"
	"github.com/atelier-socle/audiomark/internal/types"
)

// Write implements the MP4 write strategy: always a full atomic rewrite,
// never in-place, since the moov atom almost always changes size. The new
// file layout is ftyp, rebuilt moov, mdat header, the original audio
// payload (streamed, never buffered whole), then any new chapter/artwork
// sample bytes appended after the original audio payload inside the same
// mdat, with their own chunk offsets.
func Write(path string, m types.AudioMetadata, chapters types.ChapterList, bufferSize int) error {
	return rewriteWithOptions(path, m, chapters, bufferSize, RebuildOptions{})
}

// Modify behaves like Write except opaque udta siblings of meta/chpl and
// opaque ilst entries outside the recognised tag-key set are preserved.
func Modify(path string, m types.AudioMetadata, chapters types.ChapterList, bufferSize int) error {
	doc, err := OpenDocument(path)
	if err != nil {
		return err
	}
	udtaExtras, ilstExtras, err := collectPreserved(doc)
	doc.Close()
	if err != nil {
		return err
	}
	return rewriteWithOptions(path, m, chapters, bufferSize, RebuildOptions{
		PreserveUdtaExtras: udtaExtras,
		PreserveIlstExtras: ilstExtras,
	})
}

// Strip removes moov/udta (metadata and the Nero chapter list) and every
// text/sbtl chapter track, unlike the MP3 codec's chapter-preserving strip.
// A chapter-artwork video track is not removed.
func Strip(path string, bufferSize int) error {
	return rewriteWithOptions(path, types.NewAudioMetadata(), types.ChapterList{}, bufferSize, RebuildOptions{OmitUdta: true})
}

func rewriteWithOptions(path string, m types.AudioMetadata, chapters types.ChapterList, bufferSize int, opts RebuildOptions) error {
	if bufferSize == 0 {
		bufferSize = streamio.DefaultChunkSize
	}

	doc, err := OpenDocument(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	duration, err := doc.Duration()
	if err != nil {
		return err
	}

	rebuilt, err := RebuildMoov(doc, m, chapters, duration, opts)
	if err != nil {
		return err
	}

	oldMoovSize := doc.Moov.Size
	newMoovSize := int64(len(rebuilt.Bytes))
	delta := newMoovSize - oldMoovSize

	applyChunkOffsetDelta(rebuilt.Bytes, delta)

	ftypPayload, err := doc.Payload(doc.Ftyp)
	if err != nil {
		return err
	}
	ftypBytes := buildAtom("ftyp", ftypPayload)

	mdatOffset, mdatSize, err := mdatRegion(doc)
	if err != nil {
		return err
	}

	// Absolute file offset where the original mdat payload bytes (after the
	// 8-byte mdat header we re-emit) will land.
	audioPayloadOffset := int64(len(ftypBytes)) + newMoovSize + 8
	audioPayloadSize := mdatSize

	appendSamples := append(append([][]byte{}, rebuilt.ChapterSamples...), rebuilt.ArtworkSamples...)
	sampleOffsets := make([]int64, len(appendSamples))
	cursor := audioPayloadOffset + audioPayloadSize
	for i, s := range appendSamples {
		sampleOffsets[i] = cursor
		cursor += int64(len(s))
	}

	patchSlots(rebuilt.Bytes, rebuilt.ChapterStcoSlots, sampleOffsets[:len(rebuilt.ChapterSamples)])
	patchSlots(rebuilt.Bytes, rebuilt.ArtworkStcoSlots, sampleOffsets[len(rebuilt.ChapterSamples):])

	newMdatSize := 8 + (cursor - audioPayloadOffset)
	mdatHeader := buildMdatHeader(newMdatSize)

	return rewrite.AtomicReplace(path, func(out *os.File) error {
		if _, err := out.Write(ftypBytes); err != nil {
			return err
		}
		if _, err := out.Write(rebuilt.Bytes); err != nil {
			return err
		}
		if _, err := out.Write(mdatHeader); err != nil {
			return err
		}
		w := streamio.NewFileWriterFromHandle(out, path)
		if err := w.CopyChunked(doc.Reader, mdatOffset+8, audioPayloadSize, bufferSize); err != nil {
			return err
		}
		for _, s := range appendSamples {
			if _, err := out.Write(s); err != nil {
				return err
			}
		}
		return nil
	})
}

func patchSlots(buf []byte, slots []int, absoluteOffsets []int64) {
	for i, slot := range slots {
		if i >= len(absoluteOffsets) {
			break
		}
		if slot+4 > len(buf) {
			continue
		}
		putBE32(buf[slot:slot+4], uint32(absoluteOffsets[i]))
	}
}

func mdatRegion(doc *Document) (offset int64, size int64, err error) {
	if doc.Mdat == nil {
		return 0, 0, &types.AtomNotFoundError{AtomType: "mdat"}
	}
	return doc.Mdat.Offset, doc.Mdat.PayloadSize(), nil
}

func buildMdatHeader(totalSize int64) []byte {
	return []byte{
		byte(totalSize >> 24), byte(totalSize >> 16), byte(totalSize >> 8), byte(totalSize),
		'm', 'd', 'a', 't',
	}
}
