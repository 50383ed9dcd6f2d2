package audiomark

// SaveOption configures behavior when saving audio files, following the
// teacher's options_write.go.
//
// Example:
//
//	err := file.Save(audiomark.WithBackup(".bak"))
type SaveOption func(*saveOptions)

type saveOptions struct {
	backupSuffix string // suffix for a pre-save backup copy, e.g. ".bak" (empty = no backup)
	validate     bool   // re-read after writing to verify the round trip
}

func defaultSaveOptions() *saveOptions {
	return &saveOptions{}
}

// WithBackup copies the file to path+suffix before writing, overwriting any
// existing backup. Nothing is copied if suffix is empty (the default).
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) { o.backupSuffix = suffix }
}

// WithValidation re-reads the file after saving to confirm the write can be
// parsed back. Read errors during validation are returned from Save even
// though the write itself succeeded.
func WithValidation() SaveOption {
	return func(o *saveOptions) { o.validate = true }
}
