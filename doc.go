// Package audiomark provides format-agnostic audio metadata reading and
// writing for MP3 (ID3v2) and M4A/M4B/AAX (ISO BMFF) files.
//
// audiomark supports a single unified domain model — AudioMetadata,
// ChapterList, Artwork, synchronized lyrics — across both container
// formats, so callers write one code path regardless of which format a
// file turns out to be.
//
// # Quick Start
//
// Reading metadata from an audio file:
//
//	file, err := audiomark.Open("song.mp3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%s - %s\n", file.Info.Metadata.Artist, file.Info.Metadata.Title)
//	if file.Info.Duration != nil {
//	    fmt.Printf("Duration: %s\n", file.Info.Duration)
//	}
//
// # Supported Formats
//
//   - MP3: ID3v2.3 and ID3v2.4 tags, including chapter (CHAP/CTOC) frames
//   - M4A/M4B/AAX: iTunes ilst metadata atoms, Nero and QuickTime text-track
//     chapters, and an embedded artwork video track
//
// # Philosophy
//
//  1. No silent data loss: a malformed payload on a recognised frame or atom
//     fails the read with a typed error instead of returning partial data;
//     unrecognised frames and atoms round-trip opaquely. Missing optional
//     fields never stop parsing.
//  2. Closed, typed errors: every hard failure is an exported struct type,
//     never a bare sentinel string, so callers can type-assert on it.
//  3. Whole-file rewrite by default: Write replaces the tag/atom region
//     entirely; Modify preserves whatever it doesn't recognise. MP4 writes,
//     and MP3 writes whose new tag does not fit the existing tag region, go
//     through a temp file and rename, so a crash mid-write never corrupts
//     the original; an MP3 tag that fits is overwritten in place.
//
// # Architecture
//
//	[AudioFile]            - entry point, Open()/Save()/Close()
//	  └─ [AudioFileInfo]   - AudioMetadata + ChapterList + duration
//	[engine.go]            - stateless Read/Write/Modify/Strip façade
//	[internal/dispatch]    - format detection + codec routing
//	[internal/id3v2]       - ID3v2 codec
//	[internal/mp4]         - ISO BMFF atom codec
//	[internal/chapterfmt]  - chapter interchange (podlove, mp4chaps, srt, …)
//
// # Chapter interchange
//
//	text, err := audiomark.ExportChapters("book.m4b", "mp4chaps")
//	err = audiomark.ImportChapters("book.m4b", text, "mp4chaps")
//
// # Batch reads
//
//	results, _ := audiomark.ReadAll(ctx, paths, 8)
package audiomark
