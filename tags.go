package audiomark

import "github.com/atelier-socle/audiomark/internal/types"

// AudioMetadata is an alias to types.AudioMetadata for backwards compatibility.
type AudioMetadata = types.AudioMetadata

// AudioFileInfo is an alias to types.AudioFileInfo for backwards compatibility.
type AudioFileInfo = types.AudioFileInfo

// URLKind is an alias to types.URLKind for backwards compatibility.
type URLKind = types.URLKind

const (
	URLArtist      = types.URLArtist
	URLAudioSource = types.URLAudioSource
	URLAudioFile   = types.URLAudioFile
	URLPublisher   = types.URLPublisher
	URLCommercial  = types.URLCommercial
)

// PrivateData is an alias to types.PrivateData for backwards compatibility.
type PrivateData = types.PrivateData

// UniqueFileIdentifier is an alias to types.UniqueFileIdentifier for backwards compatibility.
type UniqueFileIdentifier = types.UniqueFileIdentifier

// SynchronizedLyrics is an alias to types.SynchronizedLyrics for backwards compatibility.
type SynchronizedLyrics = types.SynchronizedLyrics

// LyricLine is an alias to types.LyricLine for backwards compatibility.
type LyricLine = types.LyricLine

// LyricSegment is an alias to types.LyricSegment for backwards compatibility.
type LyricSegment = types.LyricSegment

// LyricsContentType is an alias to types.LyricsContentType for backwards compatibility.
type LyricsContentType = types.LyricsContentType

const (
	LyricsContentOther             = types.LyricsContentOther
	LyricsContentLyrics            = types.LyricsContentLyrics
	LyricsContentTextTranscription = types.LyricsContentTextTranscription
	LyricsContentMovementPart      = types.LyricsContentMovementPart
	LyricsContentEvents            = types.LyricsContentEvents
	LyricsContentChord             = types.LyricsContentChord
	LyricsContentTrivia            = types.LyricsContentTrivia
	LyricsContentWebpageURLs       = types.LyricsContentWebpageURLs
	LyricsContentImageURLs         = types.LyricsContentImageURLs
)

// NewAudioMetadata returns a zero-value AudioMetadata with initialized maps.
func NewAudioMetadata() AudioMetadata {
	return types.NewAudioMetadata()
}
