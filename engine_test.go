package audiomark

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte("\xFF\xFB\x90\x00some-fake-audio-bytes"), 0o644); err != nil {
		t.Fatalf("write test mp3: %v", err)
	}
	return path
}

func TestDetectFormatMP3(t *testing.T) {
	path := newTestMP3(t)
	format, err := DetectFormat(path)
	if err != nil {
		t.Fatalf("DetectFormat: %v", err)
	}
	if format != FormatMP3 {
		t.Fatalf("got %s, want mp3", format)
	}
}

func TestWriteReadModifyStripRoundTrip(t *testing.T) {
	path := newTestMP3(t)

	info := NewAudioMetadata()
	info.Title = "Engine Title"
	info.Artist = "Engine Artist"

	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Metadata.Title != "Engine Title" {
		t.Fatalf("Title = %q, want Engine Title", got.Metadata.Title)
	}

	got.Metadata.Album = "Engine Album"
	if err := Modify(path, got); err != nil {
		t.Fatalf("Modify: %v", err)
	}

	got, err = Read(path)
	if err != nil {
		t.Fatalf("Read after Modify: %v", err)
	}
	if got.Metadata.Title != "Engine Title" || got.Metadata.Album != "Engine Album" {
		t.Fatalf("unexpected metadata after Modify: %+v", got.Metadata)
	}

	if err := Strip(path); err != nil {
		t.Fatalf("Strip: %v", err)
	}
	got, err = Read(path)
	if _, ok := err.(*NoTagError); !ok {
		t.Fatalf("Read after Strip: expected *NoTagError for a file with no tag left, got %v (%T)", err, err)
	}
	if got.Metadata.Title != "" {
		t.Fatalf("expected Title cleared after Strip, got %q", got.Metadata.Title)
	}
}

func TestReadChaptersWriteChaptersAndExportImport(t *testing.T) {
	path := newTestMP3(t)

	info := NewAudioMetadata()
	info.Title = "Audiobook"
	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	chapters := NewChapterList([]Chapter{
		{ID: NewChapterID(), Title: "Chapter 1", Start: NewAudioTimestamp(0)},
		{ID: NewChapterID(), Title: "Chapter 2", Start: NewAudioTimestamp(120)},
	})
	if err := WriteChapters(path, chapters); err != nil {
		t.Fatalf("WriteChapters: %v", err)
	}

	got, err := ReadChapters(path)
	if err != nil {
		t.Fatalf("ReadChapters: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 chapters, got %d", got.Len())
	}

	text, err := ExportChapters(path, "mp4chaps")
	if err != nil {
		t.Fatalf("ExportChapters: %v", err)
	}
	if text == "" {
		t.Fatal("ExportChapters returned empty text")
	}

	if err := ImportChapters(path, text, "mp4chaps"); err != nil {
		t.Fatalf("ImportChapters: %v", err)
	}
	got, err = ReadChapters(path)
	if err != nil {
		t.Fatalf("ReadChapters after ImportChapters: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 chapters after re-import, got %d", got.Len())
	}
}

func TestWriteChaptersWithEmptyListRemovesThem(t *testing.T) {
	path := newTestMP3(t)
	info := NewAudioMetadata()
	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	chapters := NewChapterList([]Chapter{{Title: "One", Start: NewAudioTimestamp(0)}})
	if err := WriteChapters(path, chapters); err != nil {
		t.Fatalf("WriteChapters: %v", err)
	}
	if err := WriteChapters(path, NewChapterList(nil)); err != nil {
		t.Fatalf("WriteChapters(empty): %v", err)
	}
	got, err := ReadChapters(path)
	if err != nil {
		t.Fatalf("ReadChapters: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("expected 0 chapters after clearing, got %d", got.Len())
	}
}

func TestExportChaptersRejectsUnknownFormat(t *testing.T) {
	path := newTestMP3(t)
	info := NewAudioMetadata()
	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_, err := ExportChapters(path, "not-a-format")
	if err == nil {
		t.Fatal("expected an error for an unrecognised export format")
	}
}

func TestReadAllHandlesMixedSuccessAndFailure(t *testing.T) {
	good := newTestMP3(t)
	info := NewAudioMetadata()
	info.Title = "Good File"
	if err := Write(good, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	bad := filepath.Join(t.TempDir(), "missing.mp3")

	results, err := ReadAll(context.Background(), []string{good, bad}, 2)
	if err != nil {
		t.Fatalf("ReadAll returned an error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("expected the good file to succeed, got: %v", results[0].Err)
	}
	if results[0].File == nil || results[0].File.Info.Metadata.Title != "Good File" {
		t.Errorf("unexpected file content for the good path: %+v", results[0].File)
	}
	if results[1].Err == nil {
		t.Error("expected the missing file to fail")
	}
}
