package audiomark

import (
	"github.com/google/uuid"

	"github.com/atelier-socle/audiomark/internal/types"
)

// Chapter is an alias to types.Chapter for backwards compatibility.
type Chapter = types.Chapter

// ChapterList is an alias to types.ChapterList for backwards compatibility.
type ChapterList = types.ChapterList

// AudioTimestamp is an alias to types.AudioTimestamp for backwards compatibility.
type AudioTimestamp = types.AudioTimestamp

// NewChapterList builds a ChapterList from a slice, copying it.
func NewChapterList(chapters []Chapter) ChapterList {
	return types.NewChapterList(chapters)
}

// NewAudioTimestamp constructs a timestamp from a seconds value.
func NewAudioTimestamp(seconds float64) AudioTimestamp {
	return types.NewAudioTimestamp(seconds)
}

// ParseAudioTimestamp parses MM:SS[.mmm] or HH:MM:SS[.mmm].
func ParseAudioTimestamp(s string) (AudioTimestamp, error) {
	return types.ParseAudioTimestamp(s)
}

// NewChapterID returns a fresh opaque chapter identity.
//
// Chapter.ID is caller-assigned; NewChapterID exists for callers inserting a
// chapter without one of their own, e.g.:
//
//	ch := audiomark.Chapter{ID: audiomark.NewChapterID(), Title: "Intro", Start: audiomark.NewAudioTimestamp(0)}
func NewChapterID() string {
	return uuid.NewString()
}
