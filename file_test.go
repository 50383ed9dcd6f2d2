package audiomark

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenReadsMetadataAndClosesWithoutError(t *testing.T) {
	path := newTestMP3(t)
	info := NewAudioMetadata()
	info.Title = "File API Title"
	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Info.Metadata.Title != "File API Title" {
		t.Fatalf("Title = %q, want File API Title", f.Info.Metadata.Title)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if f.Info.Metadata.Title != "" {
		t.Fatal("expected Close to clear in-memory Info")
	}
}

func TestOpenWithMaxArtworkSizeDropsOversizedArtwork(t *testing.T) {
	path := newTestMP3(t)
	info := NewAudioMetadata()
	info.Title = "Cover Test"
	art := NewArtwork(make([]byte, 1000), ArtworkFormatJPEG)
	info.Artwork = &art
	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := Open(path, WithMaxArtworkSize(10))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Info.Metadata.Artwork != nil {
		t.Fatal("expected oversized artwork to be dropped")
	}
}

func TestSaveWithBackupCopiesOriginalFile(t *testing.T) {
	path := newTestMP3(t)
	info := NewAudioMetadata()
	info.Title = "Before Save"
	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Info.Metadata.Title = "After Save"
	if err := f.Save(WithBackup(".bak")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	backupPath := path + ".bak"
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("expected a backup file at %s: %v", backupPath, err)
	}

	backup, err := Read(backupPath)
	if err != nil {
		t.Fatalf("Read backup: %v", err)
	}
	if backup.Metadata.Title != "Before Save" {
		t.Fatalf("backup Title = %q, want Before Save", backup.Metadata.Title)
	}

	current, err := Read(path)
	if err != nil {
		t.Fatalf("Read current: %v", err)
	}
	if current.Metadata.Title != "After Save" {
		t.Fatalf("current Title = %q, want After Save", current.Metadata.Title)
	}
}

func TestSaveWithValidationRereadsFile(t *testing.T) {
	path := newTestMP3(t)
	info := NewAudioMetadata()
	if err := Write(path, AudioFileInfo{Metadata: info}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Info.Metadata.Title = "Validated Title"
	if err := f.Save(WithValidation()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if f.Info.Metadata.Title != "Validated Title" {
		t.Fatalf("Title after validation re-read = %q, want Validated Title", f.Info.Metadata.Title)
	}
}

func TestOpenMissingFileReturnsError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}
