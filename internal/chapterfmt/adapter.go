// Package chapterfmt implements the chapter-interchange adapters behind the
// engine façade's export_chapters/import_chapters operations. Each adapter
// is a pure, stateless pass-through between types.ChapterList and one
// external text format; none of them carry business logic. Per the
// contract only title, start time, and URL round-trip — end times are not
// preserved by any adapter.
package chapterfmt

import (
	"github.com/atelier-socle/audiomark/internal/types"
)

// Adapter converts between types.ChapterList and one external chapter text
// format.
type Adapter interface {
	Export(chapters types.ChapterList) (string, error)
	Import(text string) (types.ChapterList, error)
}

// Recognised format tags (spec §6).
const (
	FormatPodloveJSON = "podlove-json"
	FormatPodloveXML  = "podlove-xml"
	FormatMP4Chaps    = "mp4chaps"
	FormatFFMetadata  = "ffmetadata"
	FormatMarkdown    = "markdown"
	FormatPodcastNS   = "podcast-ns"
	FormatLRC         = "lrc"
	FormatTTML        = "ttml"
	FormatWebVTT      = "webvtt"
	FormatSRT         = "srt"
	FormatCue         = "cue"
)

var registry = map[string]Adapter{
	FormatPodloveJSON: podloveJSONAdapter{},
	FormatPodloveXML:  podloveXMLAdapter{},
	FormatMP4Chaps:    mp4ChapsAdapter{},
	FormatFFMetadata:  ffmetadataAdapter{},
	FormatMarkdown:    markdownAdapter{},
	FormatPodcastNS:   podcastNSAdapter{},
	FormatLRC:         lrcAdapter{},
	FormatTTML:        ttmlAdapter{},
	FormatWebVTT:      webvttAdapter{},
	FormatSRT:         srtAdapter{},
	FormatCue:         cueAdapter{},
}

// Get resolves a format tag to its adapter.
func Get(format string) (Adapter, error) {
	a, ok := registry[format]
	if !ok {
		return nil, &types.InvalidExportFormatError{Reason: "unrecognised chapter format: " + format}
	}
	return a, nil
}
