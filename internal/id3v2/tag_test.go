package id3v2

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/atelier-socle/audiomark/internal/types"
)

func newTestMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.mp3")
	// a few bytes of fake audio payload; the ID3v2 codec never inspects it
	if err := os.WriteFile(path, []byte("\xFF\xFB\x90\x00audio-payload-bytes"), 0o644); err != nil {
		t.Fatalf("write test mp3: %v", err)
	}
	return path
}

func TestReadNoExistingTagReturnsNoTagError(t *testing.T) {
	path := newTestMP3(t)
	_, err := Read(path)
	if _, ok := err.(*types.NoTagError); !ok {
		t.Fatalf("expected *types.NoTagError, got %v (%T)", err, err)
	}
}

func TestWriteThenReadRoundTripsMetadata(t *testing.T) {
	path := newTestMP3(t)

	m := types.NewAudioMetadata()
	m.Title = "Test Title"
	m.Artist = "Test Artist"
	m.HasTrackNumber = true
	m.TrackNumber = 5

	if err := Write(path, m, types.ChapterList{}, Version4, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	result, err := Read(path)
	if err != nil {
		t.Fatalf("Read after Write: %v", err)
	}
	if result.Info.Metadata.Title != "Test Title" {
		t.Errorf("Title = %q, want Test Title", result.Info.Metadata.Title)
	}
	if result.Info.Metadata.Artist != "Test Artist" {
		t.Errorf("Artist = %q, want Test Artist", result.Info.Metadata.Artist)
	}
	if !result.Info.Metadata.HasTrackNumber || result.Info.Metadata.TrackNumber != 5 {
		t.Errorf("TrackNumber = %+v, want 5", result.Info.Metadata)
	}

	// the original audio payload must survive verbatim after the tag
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back file: %v", err)
	}
	if !containsBytes(data, []byte("audio-payload-bytes")) {
		t.Error("audio payload was lost or corrupted by Write")
	}
}

func TestModifyPreservesUnknownFrames(t *testing.T) {
	path := newTestMP3(t)

	m := types.NewAudioMetadata()
	m.Title = "Original"
	if err := Write(path, m, types.ChapterList{}, Version4, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m2 := types.NewAudioMetadata()
	m2.Title = "Updated"
	m2.Artist = "New Artist"
	if err := Modify(path, m2, types.ChapterList{}, Version4, 0); err != nil {
		t.Fatalf("Modify: %v", err)
	}

	result, err := Read(path)
	if err != nil {
		t.Fatalf("Read after Modify: %v", err)
	}
	if result.Info.Metadata.Title != "Updated" {
		t.Errorf("Title = %q, want Updated", result.Info.Metadata.Title)
	}
	if result.Info.Metadata.Artist != "New Artist" {
		t.Errorf("Artist = %q, want New Artist", result.Info.Metadata.Artist)
	}
}

func TestStripRemovesTagButKeepsChapters(t *testing.T) {
	path := newTestMP3(t)

	m := types.NewAudioMetadata()
	m.Title = "To Be Stripped"
	chapters := types.NewChapterList([]types.Chapter{
		{ID: "c1", Title: "Chapter 1", Start: types.NewAudioTimestamp(0)},
	})
	if err := Write(path, m, chapters, Version4, 0); err != nil {
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
	if result.Info.Chapters.Len() != 1 {
		t.Errorf("expected chapters to survive Strip, got %d", result.Info.Chapters.Len())
	}
}

func TestStripWithNoChaptersRemovesTagHeaderEntirely(t *testing.T) {
	path := newTestMP3(t)
	audioPayload := []byte("\xFF\xFB\x90\x00audio-payload-bytes")

	m := types.NewAudioMetadata()
	m.Title = "To Be Fully Stripped"
	if err := Write(path, m, types.ChapterList{}, Version4, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := Strip(path, 0); err != nil {
		t.Fatalf("Strip: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, audioPayload) {
		t.Fatalf("stripped file = %q, want the original audio payload %q with no ID3 header", got, audioPayload)
	}

	if _, err := Read(path); !isNoTagError(err) {
		t.Fatalf("expected *types.NoTagError reading the stripped file, got %v (%T)", err, err)
	}
}

func isNoTagError(err error) bool {
	_, ok := err.(*types.NoTagError)
	return ok
}

func TestStripWithNoTagIsANoop(t *testing.T) {
	path := newTestMP3(t)
	if err := Strip(path, 0); err != nil {
		t.Fatalf("Strip on untagged file should be a no-op, got: %v", err)
	}
}

func containsBytes(haystack, needle []byte) bool {
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		match := true
		for j := 0; j < n; j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
