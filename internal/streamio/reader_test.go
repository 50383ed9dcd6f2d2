package streamio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atelier-socle/audiomark/internal/types"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestOpenFileReaderMissingFile(t *testing.T) {
	_, err := OpenFileReader(filepath.Join(t.TempDir(), "missing.bin"))
	if _, ok := err.(*types.FileNotFoundError); !ok {
		t.Fatalf("expected *types.FileNotFoundError, got %v (%T)", err, err)
	}
}

func TestFileReaderSizeAndRead(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	fr, err := OpenFileReader(path)
	if err != nil {
		t.Fatalf("OpenFileReader: %v", err)
	}
	defer fr.Close()

	if fr.Size() != 10 {
		t.Fatalf("Size = %d, want 10", fr.Size())
	}
	got, err := fr.Read(2, 3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "234" {
		t.Fatalf("got %q, want 234", got)
	}
}

func TestFileReaderReadOutOfBounds(t *testing.T) {
	path := writeTempFile(t, []byte("abc"))
	fr, err := OpenFileReader(path)
	if err != nil {
		t.Fatalf("OpenFileReader: %v", err)
	}
	defer fr.Close()

	if _, err = fr.Read(0, 100); err == nil {
		t.Fatal("expected an OutOfBoundsError for a too-large read")
	}
	if _, ok := err.(*types.OutOfBoundsError); !ok {
		t.Fatalf("expected *types.OutOfBoundsError, got %v (%T)", err, err)
	}
}

func TestFileReaderReadToEnd(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	fr, err := OpenFileReader(path)
	if err != nil {
		t.Fatalf("OpenFileReader: %v", err)
	}
	defer fr.Close()

	got, err := fr.ReadToEnd(7)
	if err != nil {
		t.Fatalf("ReadToEnd: %v", err)
	}
	if string(got) != "789" {
		t.Fatalf("got %q, want 789", got)
	}
}

func TestFileReaderReadChunkedRejectsInvalidBufferSize(t *testing.T) {
	path := writeTempFile(t, []byte("0123456789"))
	fr, err := OpenFileReader(path)
	if err != nil {
		t.Fatalf("OpenFileReader: %v", err)
	}
	defer fr.Close()

	err = fr.ReadChunked(0, 10, 1, func([]byte, int64, int64) error { return nil })
	if _, ok := err.(*types.InvalidBufferSizeError); !ok {
		t.Fatalf("expected *types.InvalidBufferSizeError, got %v (%T)", err, err)
	}
}

func TestFileReaderReadChunkedIteratesWholeRange(t *testing.T) {
	data := make([]byte, 20*1024)
	for i := range data {
		data[i] = byte(i % 256)
	}
	path := writeTempFile(t, data)
	fr, err := OpenFileReader(path)
	if err != nil {
		t.Fatalf("OpenFileReader: %v", err)
	}
	defer fr.Close()

	var collected []byte
	err = fr.ReadChunked(0, int64(len(data)), MinChunkSize, func(chunk []byte, readSoFar, total int64) error {
		collected = append(collected, chunk...)
		if total != int64(len(data)) {
			t.Errorf("total = %d, want %d", total, len(data))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadChunked: %v", err)
	}
	if len(collected) != len(data) {
		t.Fatalf("collected %d bytes, want %d", len(collected), len(data))
	}
	for i := range data {
		if collected[i] != data[i] {
			t.Fatalf("byte %d mismatch", i)
		}
	}
}

func TestFileReaderReadChunkedPropagatesCallbackError(t *testing.T) {
	path := writeTempFile(t, make([]byte, MinChunkSize*2))
	fr, err := OpenFileReader(path)
	if err != nil {
		t.Fatalf("OpenFileReader: %v", err)
	}
	defer fr.Close()

	sentinel := &types.ReadFailedError{Path: path, Reason: "stop"}
	err = fr.ReadChunked(0, int64(MinChunkSize*2), MinChunkSize, func([]byte, int64, int64) error {
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("expected the callback's error to propagate, got %v", err)
	}
}
