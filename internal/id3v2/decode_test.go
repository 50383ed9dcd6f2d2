package id3v2

import (
	"testing"

	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

func mustEncodeTextPayload(t *testing.T, s string) []byte {
	t.Helper()
	b, err := encodeTextPayload(textPayload{Encoding: binary.EncodingUTF8, Text: s})
	if err != nil {
		t.Fatalf("encodeTextPayload: %v", err)
	}
	return b
}

func TestDecodeTextFieldFrames(t *testing.T) {
	frames := []RawFrame{
		{ID: "TIT2", Data: mustEncodeTextPayload(t, "My Title")},
		{ID: "TPE1", Data: mustEncodeTextPayload(t, "My Artist")},
		{ID: "TALB", Data: mustEncodeTextPayload(t, "My Album")},
	}
	m, _, unknown, err := Decode(frames, Version4)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(unknown) != 0 {
		t.Fatalf("unexpected unknown frames: %+v", unknown)
	}
	if m.Title != "My Title" || m.Artist != "My Artist" || m.Album != "My Album" {
		t.Fatalf("unexpected metadata: %+v", m)
	}
}

func TestDecodeTrackAndDiscNumberSplitsSlashForm(t *testing.T) {
	frames := []RawFrame{
		{ID: "TRCK", Data: mustEncodeTextPayload(t, "3/12")},
		{ID: "TPOS", Data: mustEncodeTextPayload(t, "1/2")},
	}
	m, _, _, _ := Decode(frames, Version4)
	if !m.HasTrackNumber || m.TrackNumber != 3 {
		t.Fatalf("TrackNumber = %+v, want 3", m)
	}
	if !m.HasDiscNumber || m.DiscNumber != 1 {
		t.Fatalf("DiscNumber = %+v, want 1", m)
	}
}

func TestDecodeYearFromTDRC(t *testing.T) {
	frames := []RawFrame{{ID: "TDRC", Data: mustEncodeTextPayload(t, "2024-05-01")}}
	m, _, _, _ := Decode(frames, Version4)
	if !m.HasYear || m.Year != 2024 {
		t.Fatalf("Year = %+v, want 2024", m)
	}
}

func TestDecodeUnknownFrameRoundTripsOpaque(t *testing.T) {
	frames := []RawFrame{{ID: "XYZZ", Data: []byte{1, 2, 3}}}
	_, _, unknown, _ := Decode(frames, Version4)
	if len(unknown) != 1 || unknown[0].ID != "XYZZ" {
		t.Fatalf("expected the unrecognised frame to round-trip opaque, got %+v", unknown)
	}
}

func TestDecodeFrontCoverAPICPreferredOverFirst(t *testing.T) {
	other, err := encodeAPIC(apicPayload{Encoding: binary.EncodingUTF8, MIME: "image/png", PictureType: 0x01, Data: []byte{1, 2}})
	if err != nil {
		t.Fatalf("encodeAPIC: %v", err)
	}
	front, err := encodeAPIC(apicPayload{Encoding: binary.EncodingUTF8, MIME: "image/jpeg", PictureType: pictureTypeCoverFront, Data: []byte{0xFF, 0xD8, 0xFF}})
	if err != nil {
		t.Fatalf("encodeAPIC: %v", err)
	}
	frames := []RawFrame{{ID: "APIC", Data: other}, {ID: "APIC", Data: front}}

	m, _, _, _ := Decode(frames, Version4)
	if m.Artwork == nil {
		t.Fatal("expected Artwork to be set")
	}
	if m.Artwork.Format() != types.ArtworkFormatJPEG {
		t.Fatalf("expected the front-cover APIC to win, got format %v", m.Artwork.Format())
	}
}

func TestDecodeChapterAndCTOCOrdering(t *testing.T) {
	chap1 := encodeCHAP(chapPayload{ElementID: "c1", StartMs: 0, EndMs: 1000}, Version4)
	chap2 := encodeCHAP(chapPayload{ElementID: "c2", StartMs: 1000, EndMs: 2000}, Version4)
	ctoc := encodeCTOC(ctocPayload{ElementID: "toc", TopLevel: true, ChildIDs: []string{"c2", "c1"}}, Version4)

	frames := []RawFrame{
		{ID: "CHAP", Data: chap1},
		{ID: "CHAP", Data: chap2},
		{ID: "CTOC", Data: ctoc},
	}
	_, chapters, _, _ := Decode(frames, Version4)
	if chapters.Len() != 2 {
		t.Fatalf("expected 2 chapters, got %d", chapters.Len())
	}
	list := chapters.Items()
	if list[0].ID != "c2" || list[1].ID != "c1" {
		t.Fatalf("expected CTOC child order to reorder chapters, got %+v", list)
	}
}

func TestDecodePlayCountAndRating(t *testing.T) {
	frames := []RawFrame{
		{ID: "PCNT", Data: encodePCNT(42)},
		{ID: "POPM", Data: encodePOPM(popmPayload{Email: "a@b.com", Rating: 255, Count: 1})},
	}
	m, _, _, _ := Decode(frames, Version4)
	if m.PlayCount == nil || *m.PlayCount != 42 {
		t.Fatalf("PlayCount = %v, want 42", m.PlayCount)
	}
	if m.Rating == nil || *m.Rating != 255 {
		t.Fatalf("Rating = %v, want 255", m.Rating)
	}
}

func TestDecodeCustomTextAndURLFrames(t *testing.T) {
	txxx, err := encodeTXXX(txxxPayload{Encoding: binary.EncodingUTF8, Description: "mood", Value: "happy"})
	if err != nil {
		t.Fatalf("encodeTXXX: %v", err)
	}
	frames := []RawFrame{
		{ID: "TXXX", Data: txxx},
		{ID: "WOAR", Data: []byte("https://artist.example")},
	}
	m, _, _, _ := Decode(frames, Version4)
	if m.CustomText["mood"] != "happy" {
		t.Fatalf("CustomText[mood] = %q, want happy", m.CustomText["mood"])
	}
	if m.URLs[types.URLArtist] != "https://artist.example" {
		t.Fatalf("URLs[URLArtist] = %q, want https://artist.example", m.URLs[types.URLArtist])
	}
}

func TestDecodeMalformedTextEncodingByteIsFatal(t *testing.T) {
	frames := []RawFrame{{ID: "TIT2", Data: []byte{0xFF, 'x'}}}
	_, _, _, err := Decode(frames, Version4)
	if err == nil {
		t.Fatal("expected an error for an out-of-range text encoding byte")
	}
	if _, ok := err.(*types.InvalidTextEncodingError); !ok {
		t.Fatalf("got %T, want *types.InvalidTextEncodingError", err)
	}
}

func TestDecodeTruncatedCommentIsFatal(t *testing.T) {
	frames := []RawFrame{{ID: "COMM", Data: []byte{0x00, 'e'}}}
	_, _, _, err := Decode(frames, Version4)
	if err == nil {
		t.Fatal("expected an error for a truncated COMM payload")
	}
	if _, ok := err.(*types.TruncatedDataError); !ok {
		t.Fatalf("got %T, want *types.TruncatedDataError", err)
	}
}

func TestDecodeMalformedAPICIsFatal(t *testing.T) {
	frames := []RawFrame{{ID: "APIC", Data: []byte{0xFF}}}
	_, _, _, err := Decode(frames, Version4)
	if err == nil {
		t.Fatal("expected an error for a malformed APIC payload")
	}
}
