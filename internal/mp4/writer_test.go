package mp4

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atelier-socle/audiomark/internal/types"
)

// buildMinimalMP4 assembles the smallest file OpenDocument accepts: an
// ftyp with a supported brand, a moov with only an mvhd (no trak), and an
// mdat holding the fake audio payload. Duration comes from the mvhd
// timescale/duration fields.
func buildMinimalMP4(payload []byte) []byte {
	ftypPayload := []byte("M4A \x00\x00\x00\x00M4A \x00\x00mp42")
	ftyp := buildAtom("ftyp", ftypPayload)

	mvhdPayload := make([]byte, 20)
	putBE32(mvhdPayload[12:16], 1000)  // timescale
	putBE32(mvhdPayload[16:20], 5000)  // duration: 5 seconds at 1000 timescale
	mvhd := buildAtom("mvhd", mvhdPayload)
	moov := buildContainerAtom("moov", mvhd)

	mdat := buildAtom("mdat", payload)

	var out []byte
	out = append(out, ftyp...)
	out = append(out, moov...)
	out = append(out, mdat...)
	return out
}

func newTestM4A(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.m4a")
	data := buildMinimalMP4([]byte("fake-aac-frames-go-here"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test m4a: %v", err)
	}
	return path
}

func TestWriteThenReadRoundTripsMetadataAndDuration(t *testing.T) {
	path := newTestM4A(t)

	m := types.NewAudioMetadata()
	m.Title = "M4A Title"
	m.Artist = "M4A Artist"

	if err := Write(path, m, types.ChapterList{}, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	result, err := Read(path)
	if err != nil {
		t.Fatalf("Read after Write: %v", err)
	}
	if result.Info.Metadata.Title != "M4A Title" {
		t.Errorf("Title = %q, want M4A Title", result.Info.Metadata.Title)
	}
	if result.Info.Metadata.Artist != "M4A Artist" {
		t.Errorf("Artist = %q, want M4A Artist", result.Info.Metadata.Artist)
	}
	if result.Info.Duration == nil || result.Info.Duration.Seconds() != 5 {
		t.Errorf("Duration = %+v, want 5s", result.Info.Duration)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back file: %v", err)
	}
	if indexOf(data, []byte("fake-aac-frames-go-here")) < 0 {
		t.Error("audio payload was lost or corrupted by Write")
	}
}

func TestWriteWithChaptersAppendsChapterTrackAndPatchesOffsets(t *testing.T) {
	path := newTestM4A(t)

	m := types.NewAudioMetadata()
	m.Title = "Audiobook"
	chapters := types.NewChapterList([]types.Chapter{
		{Title: "Chapter 1", Start: types.NewAudioTimestamp(0)},
		{Title: "Chapter 2", Start: types.NewAudioTimestamp(2)},
	})

	if err := Write(path, m, chapters, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	result, err := Read(path)
	if err != nil {
		t.Fatalf("Read after Write: %v", err)
	}
	if result.Info.Chapters.Len() != 2 {
		t.Fatalf("expected 2 chapters, got %d", result.Info.Chapters.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back file: %v", err)
	}
	if indexOf(data, []byte("fake-aac-frames-go-here")) < 0 {
		t.Error("audio payload was lost or corrupted by Write with chapters")
	}
}

func TestModifyPreservesUnrecognisedIlstEntries(t *testing.T) {
	path := newTestM4A(t)

	m := types.NewAudioMetadata()
	m.Title = "Original"
	if err := Write(path, m, types.ChapterList{}, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m2 := types.NewAudioMetadata()
	m2.Title = "Modified"
	m2.Artist = "Modified Artist"
	if err := Modify(path, m2, types.ChapterList{}, 0); err != nil {
		t.Fatalf("Modify: %v", err)
	}

	result, err := Read(path)
	if err != nil {
		t.Fatalf("Read after Modify: %v", err)
	}
	if result.Info.Metadata.Title != "Modified" {
		t.Errorf("Title = %q, want Modified", result.Info.Metadata.Title)
	}
	if result.Info.Metadata.Artist != "Modified Artist" {
		t.Errorf("Artist = %q, want Modified Artist", result.Info.Metadata.Artist)
	}
}

func TestStripRemovesMetadataAndChapters(t *testing.T) {
	path := newTestM4A(t)

	m := types.NewAudioMetadata()
	m.Title = "To Strip"
	chapters := types.NewChapterList([]types.Chapter{
		{Title: "Chapter 1", Start: types.NewAudioTimestamp(0)},
	})
	if err := Write(path, m, chapters, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := Strip(path, 0); err != nil {
		t.Fatalf("Strip: %v", err)
	}

	result, err := Read(path)
	if err != nil {
		t.Fatalf("Read after Strip: %v", err)
	}
	if result.Info.Metadata.Title != "" {
		t.Errorf("Title = %q, want empty after Strip", result.Info.Metadata.Title)
	}
	if result.Info.Chapters.Len() != 0 {
		t.Errorf("expected 0 chapters after Strip, got %d", result.Info.Chapters.Len())
	}
}

func TestOpenDocumentRejectsUnsupportedBrand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.m4a")
	ftyp := buildAtom("ftyp", []byte("xxxx\x00\x00\x00\x00"))
	moov := buildContainerAtom("moov", buildAtom("mvhd", make([]byte, 20)))
	data := append(append([]byte{}, ftyp...), moov...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	_, err := OpenDocument(path)
	if _, ok := err.(*types.UnsupportedFileTypeError); !ok {
		t.Fatalf("expected *types.UnsupportedFileTypeError, got %v (%T)", err, err)
	}
}

func TestOpenDocumentRejectsMissingMoov(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nomoov.m4a")
	ftyp := buildAtom("ftyp", []byte("M4A \x00\x00\x00\x00"))
	if err := os.WriteFile(path, ftyp, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	_, err := OpenDocument(path)
	if _, ok := err.(*types.InvalidFileError); !ok {
		t.Fatalf("expected *types.InvalidFileError, got %v (%T)", err, err)
	}
}
