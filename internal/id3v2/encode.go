package id3v2

import (
	"fmt"
	"sort"

	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

var fieldToTextFrame = []struct {
	id    string
	value func(types.AudioMetadata) string
}{
	{"TIT2", func(m types.AudioMetadata) string { return m.Title }},
	{"TPE1", func(m types.AudioMetadata) string { return m.Artist }},
	{"TALB", func(m types.AudioMetadata) string { return m.Album }},
	{"TCON", func(m types.AudioMetadata) string { return m.Genre }},
	{"TPE2", func(m types.AudioMetadata) string { return m.AlbumArtist }},
	{"TCOM", func(m types.AudioMetadata) string { return m.Composer }},
	{"TPUB", func(m types.AudioMetadata) string { return m.Publisher }},
	{"TCOP", func(m types.AudioMetadata) string { return m.Copyright }},
	{"TENC", func(m types.AudioMetadata) string { return m.Encoder }},
	{"TKEY", func(m types.AudioMetadata) string { return m.Key }},
	{"TLAN", func(m types.AudioMetadata) string { return m.Language }},
	{"TSRC", func(m types.AudioMetadata) string { return m.ISRC }},
}

var fieldToURLFrame = map[types.URLKind]string{
	types.URLArtist:      "WOAR",
	types.URLAudioSource: "WOAS",
	types.URLAudioFile:   "WOAF",
	types.URLPublisher:   "WPUB",
	types.URLCommercial:  "WCOM",
}

// textEncodingFor picks the encoding byte per §4.3: v2.4 always UTF-8;
// v2.3 Latin-1 when representable, else UTF-16 with BOM.
func textEncodingFor(version Version, s string) binary.TextEncoding {
	if version == Version4 {
		return binary.EncodingUTF8
	}
	if binary.IsLatin1Representable(s) {
		return binary.EncodingLatin1
	}
	return binary.EncodingUTF16BOM
}

// Encode builds the full frame-byte sequence (excluding header and padding)
// for metadata + chapters.
func Encode(m types.AudioMetadata, chapters types.ChapterList, version Version) ([]byte, error) {
	w := binary.NewWriter()

	for _, f := range fieldToTextFrame {
		if v := f.value(m); v != "" {
			if err := writeTextFrame(w, version, f.id, v); err != nil {
				return nil, err
			}
		}
	}

	if m.HasTrackNumber {
		if err := writeTextFrame(w, version, "TRCK", fmt.Sprintf("%d", m.TrackNumber)); err != nil {
			return nil, err
		}
	}
	if m.HasDiscNumber {
		if err := writeTextFrame(w, version, "TPOS", fmt.Sprintf("%d", m.DiscNumber)); err != nil {
			return nil, err
		}
	}
	if m.HasBPM {
		if err := writeTextFrame(w, version, "TBPM", fmt.Sprintf("%d", m.BPM)); err != nil {
			return nil, err
		}
	}
	if m.HasYear {
		yearFrame := "TYER"
		if version == Version4 {
			yearFrame = "TDRC"
		}
		if err := writeTextFrame(w, version, yearFrame, fmt.Sprintf("%04d", m.Year)); err != nil {
			return nil, err
		}
	}

	kinds := make([]types.URLKind, 0, len(m.URLs))
	for k := range m.URLs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		id, ok := fieldToURLFrame[k]
		if !ok {
			continue
		}
		EncodeFrame(w, id, version, 0, binary.EncodeLatin1(m.URLs[k]))
	}

	names := sortedKeys(m.CustomText)
	for _, name := range names {
		payload, err := encodeTXXX(txxxPayload{Encoding: textEncodingFor(version, m.CustomText[name]), Description: name, Value: m.CustomText[name]})
		if err != nil {
			return nil, err
		}
		EncodeFrame(w, "TXXX", version, 0, payload)
	}

	urlNames := sortedKeys(m.CustomURLs)
	for _, name := range urlNames {
		payload, err := encodeWXXX(wxxxPayload{Encoding: textEncodingFor(version, name), Description: name, URL: m.CustomURLs[name]})
		if err != nil {
			return nil, err
		}
		EncodeFrame(w, "WXXX", version, 0, payload)
	}

	if m.Comment != "" {
		payload, err := encodeCommentLike(commPayload{Encoding: textEncodingFor(version, m.Comment), Language: m.Language, Text: m.Comment})
		if err != nil {
			return nil, err
		}
		EncodeFrame(w, "COMM", version, 0, payload)
	}

	if m.UnsynchronizedLyrics != "" {
		payload, err := encodeCommentLike(commPayload{Encoding: textEncodingFor(version, m.UnsynchronizedLyrics), Language: m.Language, Text: m.UnsynchronizedLyrics})
		if err != nil {
			return nil, err
		}
		EncodeFrame(w, "USLT", version, 0, payload)
	}

	for _, sl := range m.SyncedLyrics {
		events := make([]syltEvent, len(sl.Lines))
		for i, l := range sl.Lines {
			events[i] = syltEvent{Text: l.Text, Ms: uint32(l.Timestamp.Millis())}
		}
		enc := textEncodingFor(version, sl.Descriptor)
		payload, err := encodeSYLT(syltPayload{Encoding: enc, Language: sl.Language, ContentType: sl.ContentType, Descriptor: sl.Descriptor, Events: events})
		if err != nil {
			return nil, err
		}
		EncodeFrame(w, "SYLT", version, 0, payload)
	}

	if m.Artwork != nil {
		if err := writeAPIC(w, version, *m.Artwork, pictureTypeCoverFront, ""); err != nil {
			return nil, err
		}
	}

	for _, pd := range m.PrivateData {
		EncodeFrame(w, "PRIV", version, 0, encodeOwnerBlob(ownerBlobPayload{Owner: pd.Owner, Data: pd.Data}))
	}
	for _, uf := range m.UniqueFileIdentifiers {
		EncodeFrame(w, "UFID", version, 0, encodeOwnerBlob(ownerBlobPayload{Owner: uf.Owner, Data: uf.Identifier}))
	}
	if m.PlayCount != nil {
		EncodeFrame(w, "PCNT", version, 0, encodePCNT(*m.PlayCount))
	}
	if m.Rating != nil {
		EncodeFrame(w, "POPM", version, 0, encodePOPM(popmPayload{Rating: *m.Rating}))
	}

	if chapters.Len() > 0 {
		encodeChapters(w, version, chapters)
	}

	return w.Bytes(), nil
}

func writeTextFrame(w *binary.Writer, version Version, id, value string) error {
	payload, err := encodeTextPayload(textPayload{Encoding: textEncodingFor(version, value), Text: value})
	if err != nil {
		return err
	}
	EncodeFrame(w, id, version, 0, payload)
	return nil
}

func writeAPIC(w *binary.Writer, version Version, art types.Artwork, pictureType byte, description string) error {
	mime := "image/jpeg"
	if art.Format() == types.ArtworkFormatPNG {
		mime = "image/png"
	}
	payload, err := encodeAPIC(apicPayload{
		Encoding:    textEncodingFor(version, description),
		MIME:        mime,
		PictureType: pictureType,
		Description: description,
		Data:        art.Data(),
	})
	if err != nil {
		return err
	}
	EncodeFrame(w, "APIC", version, 0, payload)
	return nil
}

// encodeChapters emits one CTOC (toc1, ordered+top-level) followed by one
// CHAP per chapter (chp<index>, zero-based).
func encodeChapters(w *binary.Writer, version Version, chapters types.ChapterList) {
	items := chapters.Items()
	childIDs := make([]string, len(items))
	for i := range items {
		childIDs[i] = fmt.Sprintf("chp%d", i)
	}

	ctocPayloadBytes := encodeCTOC(ctocPayload{
		ElementID: "toc1",
		Ordered:   true,
		TopLevel:  true,
		ChildIDs:  childIDs,
	}, version)
	EncodeFrame(w, "CTOC", version, 0, ctocPayloadBytes)

	for i, ch := range items {
		startMs := uint32(ch.Start.Millis())
		var endMs uint32
		switch {
		case ch.End != nil:
			endMs = uint32(ch.End.Millis())
		case i+1 < len(items):
			endMs = uint32(items[i+1].Start.Millis())
		default:
			endMs = startMs + 1
		}

		sub := binary.NewWriter()
		titlePayload, _ := encodeTextPayload(textPayload{Encoding: textEncodingFor(version, ch.Title), Text: ch.Title})
		EncodeFrame(sub, "TIT2", version, 0, titlePayload)
		if ch.URL != "" {
			EncodeFrame(sub, "WOAR", version, 0, binary.EncodeLatin1(ch.URL))
		}
		if ch.Artwork != nil {
			_ = writeAPIC(sub, version, *ch.Artwork, pictureTypeCoverFront, "")
		}

		chapPayloadBytes := encodeCHAP(chapPayload{
			ElementID: childIDs[i],
			StartMs:   startMs,
			EndMs:     endMs,
			SubFrames: subFramesFromBytes(sub.Bytes(), version),
		}, version)
		EncodeFrame(w, "CHAP", version, 0, chapPayloadBytes)
	}
}

// subFramesFromBytes re-parses an already-encoded subframe buffer, since
// encodeCHAP/encodeCTOC operate on []RawFrame rather than raw bytes.
func subFramesFromBytes(b []byte, version Version) []RawFrame {
	frames, err := ParseFrames(b, version)
	if err != nil {
		return nil
	}
	return frames
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
