// Package streamio provides positional, bounded-buffer file I/O for the
// container codecs: reading/writing without ever materializing the whole
// audio payload in memory.
package streamio

import (
	"io"
	"os"

	"github.com/atelier-socle/audiomark/internal/types"
)

const (
	MinChunkSize     = 4 * 1024
	MaxChunkSize     = 1024 * 1024
	DefaultChunkSize = 64 * 1024
)

// FileReader is a scoped handle backed by an opened file descriptor.
type FileReader struct {
	f    *os.File
	path string
	size int64
}

// OpenFileReader opens path for reading and records its size.
func OpenFileReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.FileNotFoundError{Path: path}
		}
		return nil, &types.CannotOpenError{Path: path, Reason: err.Error()}
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &types.CannotOpenError{Path: path, Reason: err.Error()}
	}
	return &FileReader{f: f, path: path, size: stat.Size()}, nil
}

// NewFileReaderFromHandle wraps an already-open file (size must be known).
func NewFileReaderFromHandle(f *os.File, path string, size int64) *FileReader {
	return &FileReader{f: f, path: path, size: size}
}

// Close releases the underlying file descriptor.
func (r *FileReader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

// Size returns the file size in bytes.
func (r *FileReader) Size() int64 { return r.size }

// Path returns the file path.
func (r *FileReader) Path() string { return r.path }

// Handle returns the underlying *os.File for use as an io.ReaderAt.
func (r *FileReader) Handle() *os.File { return r.f }

// Read reads count bytes starting at at, failing with OutOfBoundsError if
// the requested range exceeds the file.
func (r *FileReader) Read(at, count int64) ([]byte, error) {
	if at < 0 || count < 0 || at+count > r.size {
		return nil, &types.OutOfBoundsError{Offset: at, Size: r.size}
	}
	buf := make([]byte, count)
	if _, err := r.f.ReadAt(buf, at); err != nil && err != io.EOF {
		return nil, &types.ReadFailedError{Path: r.path, Reason: err.Error()}
	}
	return buf, nil
}

// ReadToEnd reads from `from` to the end of the file.
func (r *FileReader) ReadToEnd(from int64) ([]byte, error) {
	if from > r.size {
		return nil, &types.OutOfBoundsError{Offset: from, Size: r.size}
	}
	return r.Read(from, r.size-from)
}

// ChunkCallback receives a chunk, how many bytes have been read so far, and
// the total bytes to be read.
type ChunkCallback func(chunk []byte, readSoFar, total int64) error

// ReadChunked iterates fixed-size buffers over [from, from+count), invoking
// cb for each. bufferSize must fall within [MinChunkSize, MaxChunkSize].
func (r *FileReader) ReadChunked(from, count int64, bufferSize int, cb ChunkCallback) error {
	if bufferSize < MinChunkSize || bufferSize > MaxChunkSize {
		return &types.InvalidBufferSizeError{Size: bufferSize}
	}
	if from < 0 || count < 0 || from+count > r.size {
		return &types.OutOfBoundsError{Offset: from, Size: r.size}
	}

	buf := make([]byte, bufferSize)
	var readSoFar int64
	for readSoFar < count {
		remaining := count - readSoFar
		n := int64(bufferSize)
		if remaining < n {
			n = remaining
		}
		chunk := buf[:n]
		if _, err := r.f.ReadAt(chunk, from+readSoFar); err != nil && err != io.EOF {
			return &types.ReadFailedError{Path: r.path, Reason: err.Error()}
		}
		readSoFar += n
		if err := cb(chunk, readSoFar, count); err != nil {
			return err
		}
	}
	return nil
}
