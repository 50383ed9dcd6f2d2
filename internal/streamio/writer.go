package streamio

import (
	"os"

	"github.com/atelier-socle/audiomark/internal/types"
)

// FileWriter supports append, positional write, truncate, and durable flush.
type FileWriter struct {
	f    *os.File
	path string
}

// CreateFileWriter creates (or truncates) path for writing.
func CreateFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &types.CannotOpenError{Path: path, Reason: err.Error()}
	}
	return &FileWriter{f: f, path: path}, nil
}

// NewFileWriterFromHandle wraps an already-open file for writing.
func NewFileWriterFromHandle(f *os.File, path string) *FileWriter {
	return &FileWriter{f: f, path: path}
}

// Close releases the underlying file descriptor.
func (w *FileWriter) Close() error {
	if w.f == nil {
		return nil
	}
	return w.f.Close()
}

// Write writes bytes at the given absolute offset.
func (w *FileWriter) Write(b []byte, at int64) error {
	if _, err := w.f.WriteAt(b, at); err != nil {
		return &types.WriteFailedError{Path: w.path, Reason: err.Error()}
	}
	return nil
}

// Append writes bytes at the current end of the file.
func (w *FileWriter) Append(b []byte) error {
	if _, err := w.f.Write(b); err != nil {
		return &types.WriteFailedError{Path: w.path, Reason: err.Error()}
	}
	return nil
}

// Truncate resizes the file to length bytes.
func (w *FileWriter) Truncate(length int64) error {
	if err := w.f.Truncate(length); err != nil {
		return &types.WriteFailedError{Path: w.path, Reason: err.Error()}
	}
	return nil
}

// Synchronize durably flushes written data to disk.
func (w *FileWriter) Synchronize() error {
	if err := w.f.Sync(); err != nil {
		return &types.WriteFailedError{Path: w.path, Reason: err.Error()}
	}
	return nil
}

// CopyChunked streams count bytes from src starting at offset into w's
// current write position, using a bounded buffer, without buffering the
// whole payload.
func (w *FileWriter) CopyChunked(src *FileReader, offset, count int64, bufferSize int) error {
	return src.ReadChunked(offset, count, bufferSize, func(chunk []byte, _, _ int64) error {
		return w.Append(chunk)
	})
}
