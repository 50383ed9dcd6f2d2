package mp4

import (
	"testing"

	"github.com/atelier-socle/audiomark/internal/types"
)

func TestBuildNumberPairEntryUsesRequestedAtomType(t *testing.T) {
	trkn := buildNumberPairEntry("trkn", 4)
	if got := string(trkn[4:8]); got != "trkn" {
		t.Fatalf("atom type = %q, want trkn", got)
	}

	disk := buildNumberPairEntry("disk", 2)
	if got := string(disk[4:8]); got != "disk" {
		t.Fatalf("atom type = %q, want disk", got)
	}
}

func TestBuildChplEncodesVersionCountAndTitles(t *testing.T) {
	chapters := types.NewChapterList([]types.Chapter{
		{Title: "Intro", Start: types.NewAudioTimestamp(0)},
		{Title: "Chapter Two", Start: types.NewAudioTimestamp(30)},
	})
	chpl := buildChpl(chapters)

	if got := string(chpl[4:8]); got != "chpl" {
		t.Fatalf("atom type = %q, want chpl", got)
	}
	payload := chpl[8:]
	if payload[0] != 1 {
		t.Fatalf("version = %d, want 1", payload[0])
	}
	if payload[4] != 2 {
		t.Fatalf("count = %d, want 2", payload[4])
	}

	// first entry: 8-byte start (100ns units) + 1-byte title length + title
	firstTitleLen := payload[5+8]
	if int(firstTitleLen) != len("Intro") {
		t.Fatalf("first title length = %d, want %d", firstTitleLen, len("Intro"))
	}
	firstTitle := string(payload[5+9 : 5+9+int(firstTitleLen)])
	if firstTitle != "Intro" {
		t.Fatalf("first title = %q, want Intro", firstTitle)
	}
}

func TestBuildChplClampsLongTitles(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	chapters := types.NewChapterList([]types.Chapter{
		{Title: string(long), Start: types.NewAudioTimestamp(0)},
	})
	chpl := buildChpl(chapters)
	payload := chpl[8:]
	titleLen := payload[5+8]
	if titleLen != 255 {
		t.Fatalf("title length = %d, want clamped to 255", titleLen)
	}
}

func TestBuildMetaIncludesTextArtworkAndCustomFields(t *testing.T) {
	m := types.NewAudioMetadata()
	m.Title = "My Song"
	m.HasTrackNumber = true
	m.TrackNumber = 3
	art := types.NewArtwork([]byte{0xFF, 0xD8, 0xFF, 0x00}, types.ArtworkFormatJPEG)
	m.Artwork = &art
	m.CustomText["com.example:rating"] = "5"

	meta := buildMeta(m, nil)
	if string(meta[4:8]) != "meta" {
		t.Fatalf("atom type = %q, want meta", meta[4:8])
	}
	if indexOf(meta, []byte("\xa9nam")) < 0 {
		t.Error("missing title atom")
	}
	if indexOf(meta, []byte("trkn")) < 0 {
		t.Error("missing trkn atom")
	}
	if indexOf(meta, []byte("covr")) < 0 {
		t.Error("missing covr atom")
	}
	if indexOf(meta, []byte("----")) < 0 {
		t.Error("missing reverse-DNS custom text atom")
	}
}

func TestBuildReverseDNSEntrySplitsMeanAndName(t *testing.T) {
	entry := buildReverseDNSEntry("com.example:rating", "5")
	if indexOf(entry, []byte("com.example")) < 0 {
		t.Error("mean namespace not found in entry")
	}
	if indexOf(entry, []byte("rating")) < 0 {
		t.Error("name not found in entry")
	}
}

func TestBuildReverseDNSEntryDefaultsMeanWithoutColon(t *testing.T) {
	entry := buildReverseDNSEntry("nocolon", "value")
	if indexOf(entry, []byte("com.apple.iTunes")) < 0 {
		t.Error("expected default mean namespace com.apple.iTunes")
	}
}
