// Package rewrite provides the atomic sidecar-replace primitive shared by
// the ID3v2 and MP4 writers: write to a temp file in the target's
// directory, fsync, close, then rename into place. On any failure the
// sidecar is unlinked so the original file is never left in a corrupt
// state, mirroring the teacher's file_write.go pattern.
package rewrite

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFunc streams the new file contents into w.
type WriteFunc func(w *os.File) error

// AtomicReplace runs write against a temp file created alongside path,
// fsyncs it, and renames it onto path. The sidecar is removed if anything
// fails before the rename commits.
func AtomicReplace(path string, write WriteFunc) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".audiomark-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create sidecar")
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				err = errors.Wrapf(errors.Cause(err), "cleanup sidecar after failure: %v", rmErr)
			}
		}
	}()

	if err = write(tmp); err != nil {
		return errors.Wrap(err, "write sidecar")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync sidecar")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close sidecar")
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "rename sidecar into place")
	}
	committed = true
	return nil
}

// InPlaceWrite writes b at offset 0 of the already-open file and flushes
// durably, without touching bytes beyond len(b).
func InPlaceWrite(f *os.File, b []byte) error {
	if _, err := f.WriteAt(b, 0); err != nil {
		return errors.Wrap(err, "in-place write")
	}
	return errors.Wrap(f.Sync(), "in-place sync")
}
