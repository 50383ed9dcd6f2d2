package types

import "testing"

var jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}

func TestDetectArtworkRecognisesJPEGAndPNG(t *testing.T) {
	jpeg, err := DetectArtwork(jpegMagic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jpeg.Format() != ArtworkFormatJPEG {
		t.Fatalf("expected JPEG, got %s", jpeg.Format())
	}

	png, err := DetectArtwork(pngMagic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if png.Format() != ArtworkFormatPNG {
		t.Fatalf("expected PNG, got %s", png.Format())
	}
}

func TestDetectArtworkRejectsUnknownFormat(t *testing.T) {
	_, err := DetectArtwork([]byte{0x00, 0x01, 0x02, 0x03})
	if err == nil {
		t.Fatal("expected an error for unrecognised magic bytes")
	}
	var target *UnrecognizedArtworkFormatError
	if _, ok := err.(*UnrecognizedArtworkFormatError); !ok {
		t.Fatalf("expected %T, got %T", target, err)
	}
}

func TestArtworkDataIsACopy(t *testing.T) {
	original := []byte{0xFF, 0xD8, 0xFF, 0x01, 0x02}
	art := NewArtwork(original, ArtworkFormatJPEG)
	data := art.Data()
	data[0] = 0x00
	if art.Data()[0] != 0xFF {
		t.Fatal("Data() leaked the internal buffer")
	}
}

func TestArtworkEqual(t *testing.T) {
	a := NewArtwork(jpegMagic, ArtworkFormatJPEG)
	b := NewArtwork(jpegMagic, ArtworkFormatJPEG)
	c := NewArtwork(pngMagic, ArtworkFormatPNG)

	if !a.Equal(b) {
		t.Fatal("expected identical artwork to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different format/bytes to not be equal")
	}
}
