package audiomark

// OpenOption configures behavior when opening audio files.
//
// Options use the functional options pattern, following the teacher's
// options.go.
//
// Example:
//
//	file, err := audiomark.Open("song.mp3",
//	    audiomark.WithMaxArtworkSize(2<<20),
//	)
type OpenOption func(*openOptions)

type openOptions struct {
	maxArtworkSize int // drop embedded artwork larger than this, in bytes (0 = no limit)
}

func defaultOpenOptions() *openOptions {
	return &openOptions{}
}

// WithMaxArtworkSize drops embedded artwork (cover art and per-chapter
// images) larger than size bytes instead of returning it. A size of 0
// (the default) applies no limit.
func WithMaxArtworkSize(size int) OpenOption {
	return func(o *openOptions) { o.maxArtworkSize = size }
}
