package types

import "fmt"

// --- Streaming errors (internal/streamio) ---

type FileNotFoundError struct{ Path string }

func (e *FileNotFoundError) Error() string { return fmt.Sprintf("file not found: %s", e.Path) }

type CannotOpenError struct {
	Path   string
	Reason string
}

func (e *CannotOpenError) Error() string {
	return fmt.Sprintf("cannot open %s: %s", e.Path, e.Reason)
}

type ReadFailedError struct {
	Path   string
	Reason string
}

func (e *ReadFailedError) Error() string { return fmt.Sprintf("read failed for %s: %s", e.Path, e.Reason) }

type WriteFailedError struct {
	Path   string
	Reason string
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("write failed for %s: %s", e.Path, e.Reason)
}

type OutOfBoundsError struct {
	Offset int64
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("out of bounds: offset %d, size %d", e.Offset, e.Size)
}

type InvalidBufferSizeError struct{ Size int }

func (e *InvalidBufferSizeError) Error() string {
	return fmt.Sprintf("invalid buffer size: %d (must be in [4096, 1048576])", e.Size)
}

type FileTooSmallError struct {
	Expected int64
	Actual   int64
}

func (e *FileTooSmallError) Error() string {
	return fmt.Sprintf("file too small: expected at least %d bytes, got %d", e.Expected, e.Actual)
}

// --- Byte reader errors (internal/binary) ---

type UnexpectedEndError struct {
	Offset, Requested, Available int64
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("unexpected end of buffer: offset %d, requested %d, available %d", e.Offset, e.Requested, e.Available)
}

type InvalidEncodingError struct{ Offset int64 }

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("invalid text encoding byte at offset %d", e.Offset)
}

type SeekOutOfBoundsError struct {
	Offset, Size int64
}

func (e *SeekOutOfBoundsError) Error() string {
	return fmt.Sprintf("seek out of bounds: offset %d, size %d", e.Offset, e.Size)
}

// --- ID3v2 errors ---

type NoTagError struct{}

func (e *NoTagError) Error() string { return "id3v2: no tag present" }

type InvalidHeaderError struct{ Reason string }

func (e *InvalidHeaderError) Error() string { return fmt.Sprintf("id3v2: invalid header: %s", e.Reason) }

type UnsupportedVersionError struct {
	Major, Minor byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("id3v2: unsupported version %d.%d", e.Major, e.Minor)
}

type InvalidFrameError struct {
	ID     string
	Reason string
}

func (e *InvalidFrameError) Error() string {
	return fmt.Sprintf("id3v2: invalid frame %s: %s", e.ID, e.Reason)
}

type InvalidTextEncodingError struct{ Byte byte }

func (e *InvalidTextEncodingError) Error() string {
	return fmt.Sprintf("id3v2: invalid text encoding byte 0x%02X", e.Byte)
}

type TruncatedDataError struct {
	Expected, Available int64
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("id3v2: truncated data: expected %d bytes, %d available", e.Expected, e.Available)
}

type InvalidSyncsafeIntegerError struct{}

func (e *InvalidSyncsafeIntegerError) Error() string { return "id3v2: invalid syncsafe integer" }

// --- MP4 errors ---

type InvalidFileError struct{ Reason string }

func (e *InvalidFileError) Error() string { return fmt.Sprintf("mp4: invalid file: %s", e.Reason) }

type InvalidAtomError struct {
	AtomType string
	Reason   string
}

func (e *InvalidAtomError) Error() string {
	return fmt.Sprintf("mp4: invalid atom %q: %s", e.AtomType, e.Reason)
}

type UnsupportedFileTypeError struct{ Brand string }

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("mp4: unsupported file type brand %q", e.Brand)
}

type AtomNotFoundError struct{ AtomType string }

func (e *AtomNotFoundError) Error() string {
	return fmt.Sprintf("mp4: atom %q not found", e.AtomType)
}

// --- Engine errors ---

type EngineReadFailedError struct {
	Path   string
	Reason string
}

func (e *EngineReadFailedError) Error() string {
	return fmt.Sprintf("read failed for %s: %s", e.Path, e.Reason)
}

type EngineWriteFailedError struct {
	Path   string
	Reason string
}

func (e *EngineWriteFailedError) Error() string {
	return fmt.Sprintf("write failed for %s: %s", e.Path, e.Reason)
}

type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format for %s: %s", e.Path, e.Reason)
}

// --- Export/import errors ---

type InvalidExportFormatError struct{ Reason string }

func (e *InvalidExportFormatError) Error() string {
	return fmt.Sprintf("chapter export/import: invalid format: %s", e.Reason)
}

type InvalidExportDataError struct{ Reason string }

func (e *InvalidExportDataError) Error() string {
	return fmt.Sprintf("chapter export/import: invalid data: %s", e.Reason)
}

// --- Model errors ---

// (UnrecognizedArtworkFormatError lives in artwork.go; InvalidTimestampFormatError
// and a negative-value variant live in timestamp.go, since both are
// constructed exclusively by their owning type.)

type NegativeTimestampError struct{ Value float64 }

func (e *NegativeTimestampError) Error() string {
	return fmt.Sprintf("timestamp: negative value %f", e.Value)
}

// UnsupportedWriteError is returned when no writer is registered for a format.
type UnsupportedWriteError struct {
	Format string
	Reason string
}

func (e *UnsupportedWriteError) Error() string {
	return fmt.Sprintf("unsupported write for format %s: %s", e.Format, e.Reason)
}
