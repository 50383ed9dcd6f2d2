package audiomark

import "github.com/atelier-socle/audiomark/internal/types"

// Error types are re-exported from internal/types so callers can type-assert
// against the public package without reaching into internal/.

type FileNotFoundError = types.FileNotFoundError
type CannotOpenError = types.CannotOpenError
type ReadFailedError = types.ReadFailedError
type WriteFailedError = types.WriteFailedError
type OutOfBoundsError = types.OutOfBoundsError
type InvalidBufferSizeError = types.InvalidBufferSizeError
type FileTooSmallError = types.FileTooSmallError

type InvalidHeaderError = types.InvalidHeaderError
type UnsupportedVersionError = types.UnsupportedVersionError
type InvalidFrameError = types.InvalidFrameError
type InvalidTextEncodingError = types.InvalidTextEncodingError
type NoTagError = types.NoTagError
type TruncatedDataError = types.TruncatedDataError

type InvalidFileError = types.InvalidFileError
type InvalidAtomError = types.InvalidAtomError
type UnsupportedFileTypeError = types.UnsupportedFileTypeError
type AtomNotFoundError = types.AtomNotFoundError

type UnsupportedFormatError = types.UnsupportedFormatError
type UnsupportedWriteError = types.UnsupportedWriteError
type InvalidExportFormatError = types.InvalidExportFormatError
type InvalidExportDataError = types.InvalidExportDataError
