package id3v2

import (
	"strconv"
	"strings"

	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

var textFieldFrames = map[string]func(*types.AudioMetadata, string){
	"TIT2": func(m *types.AudioMetadata, v string) { m.Title = v },
	"TPE1": func(m *types.AudioMetadata, v string) { m.Artist = v },
	"TALB": func(m *types.AudioMetadata, v string) { m.Album = v },
	"TCON": func(m *types.AudioMetadata, v string) { m.Genre = v },
	"TPE2": func(m *types.AudioMetadata, v string) { m.AlbumArtist = v },
	"TCOM": func(m *types.AudioMetadata, v string) { m.Composer = v },
	"TPUB": func(m *types.AudioMetadata, v string) { m.Publisher = v },
	"TCOP": func(m *types.AudioMetadata, v string) { m.Copyright = v },
	"TENC": func(m *types.AudioMetadata, v string) { m.Encoder = v },
	"TKEY": func(m *types.AudioMetadata, v string) { m.Key = v },
	"TLAN": func(m *types.AudioMetadata, v string) { m.Language = v },
	"TSRC": func(m *types.AudioMetadata, v string) { m.ISRC = v },
}

var urlFieldFrames = map[string]types.URLKind{
	"WOAR": types.URLArtist,
	"WOAS": types.URLAudioSource,
	"WOAF": types.URLAudioFile,
	"WPUB": types.URLPublisher,
	"WCOM": types.URLCommercial,
}

// Decode converts a parsed frame list into the domain model. Unknown
// identifiers round-trip as opaque RawFrames — that is never an error. A
// malformed payload on a *recognised* identifier is per §7: it surfaces as
// one of the closed id3v2 error kinds and aborts the whole decode, rather
// than being dropped silently.
func Decode(frames []RawFrame, version Version) (types.AudioMetadata, types.ChapterList, []RawFrame, error) {
	m := types.NewAudioMetadata()
	var chapters []types.Chapter
	var ctoc *ctocPayload
	var unknown []RawFrame

	var firstAPIC *apicPayload
	var frontCoverAPIC *apicPayload

	for _, f := range frames {
		switch {
		case f.ID == "TXXX":
			p, err := decodeTXXX(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			m.CustomText[p.Description] = p.Value

		case f.ID == "WXXX":
			p, err := decodeWXXX(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			m.CustomURLs[p.Description] = p.URL

		case f.ID == "COMM":
			p, err := decodeCommentLike(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			m.Comment = p.Text

		case f.ID == "USLT":
			p, err := decodeCommentLike(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			m.UnsynchronizedLyrics = p.Text

		case f.ID == "SYLT":
			p, err := decodeSYLT(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			sl := types.SynchronizedLyrics{
				Language:    p.Language,
				ContentType: p.ContentType,
				Descriptor:  p.Descriptor,
			}
			for _, e := range p.Events {
				sl.Lines = append(sl.Lines, types.LyricLine{
					Timestamp: types.AudioTimestampFromMillis(int64(e.Ms)),
					Text:      e.Text,
				})
			}
			m.SyncedLyrics = append(m.SyncedLyrics, sl)

		case f.ID == "APIC":
			p, err := decodeAPIC(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			pc := p
			if firstAPIC == nil {
				firstAPIC = &pc
			}
			if frontCoverAPIC == nil && p.PictureType == pictureTypeCoverFront {
				frontCoverAPIC = &pc
			}

		case f.ID == "CHAP":
			p, err := decodeCHAP(f.Data, version)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			chapters = append(chapters, chapterFromCHAP(p))

		case f.ID == "CTOC":
			if ctoc == nil {
				p, err := decodeCTOC(f.Data, version)
				if err != nil {
					return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
				}
				ctoc = &p
			}

		case f.ID == "PRIV":
			p, err := decodeOwnerBlob(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			m.PrivateData = append(m.PrivateData, types.PrivateData{Owner: p.Owner, Data: p.Data})

		case f.ID == "UFID":
			p, err := decodeOwnerBlob(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			m.UniqueFileIdentifiers = append(m.UniqueFileIdentifiers, types.UniqueFileIdentifier{Owner: p.Owner, Identifier: p.Data})

		case f.ID == "PCNT":
			count := decodePCNT(f.Data)
			m.PlayCount = &count

		case f.ID == "POPM":
			p, err := decodePOPM(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			r := p.Rating
			m.Rating = &r

		case f.ID == "TRCK":
			v, err := decodeTextPayload(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			if n, ok := parseLeadingInt(v.Text); ok {
				m.TrackNumber = n
				m.HasTrackNumber = true
			}

		case f.ID == "TPOS":
			v, err := decodeTextPayload(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			if n, ok := parseLeadingInt(v.Text); ok {
				m.DiscNumber = n
				m.HasDiscNumber = true
			}

		case f.ID == "TBPM":
			v, err := decodeTextPayload(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			if n, ok := parseLeadingInt(v.Text); ok {
				m.BPM = n
				m.HasBPM = true
			}

		case f.ID == "TYER" || f.ID == "TDRC":
			v, err := decodeTextPayload(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			if n, ok := parseLeadingYear(v.Text); ok {
				m.Year = n
				m.HasYear = true
			}

		case textFieldFrames[f.ID] != nil:
			v, err := decodeTextPayload(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			textFieldFrames[f.ID](&m, v.Text)

		case f.ID == "TLEN":
			v, err := decodeTextPayload(f.Data)
			if err != nil {
				return types.AudioMetadata{}, types.ChapterList{}, nil, wrapFrameErr(f.ID, err)
			}
			m.CustomText["TLEN"] = v.Text

		case isURLFieldFrame(f.ID):
			kind := urlFieldFrames[f.ID]
			m.URLs[kind] = decodeURLFrame(f.Data)

		default:
			unknown = append(unknown, f)
		}
	}

	if frontCoverAPIC != nil {
		art := types.NewArtwork(frontCoverAPIC.Data, sniffFromMIME(frontCoverAPIC.MIME, frontCoverAPIC.Data))
		m.Artwork = &art
	} else if firstAPIC != nil {
		art := types.NewArtwork(firstAPIC.Data, sniffFromMIME(firstAPIC.MIME, firstAPIC.Data))
		m.Artwork = &art
	}

	if ctoc != nil && len(ctoc.ChildIDs) == len(chapters) {
		chapters = reorderByChildIDs(chapters, ctoc.ChildIDs)
	}

	return m, types.NewChapterList(chapters), unknown, nil
}

func chapterFromCHAP(p chapPayload) types.Chapter {
	ch := types.Chapter{
		ID:    p.ElementID,
		Start: types.AudioTimestampFromMillis(int64(p.StartMs)),
		Title: p.ElementID,
	}
	end := types.AudioTimestampFromMillis(int64(p.EndMs))
	ch.End = &end

	for _, sf := range p.SubFrames {
		switch sf.ID {
		case "TIT2":
			if v, err := decodeTextPayload(sf.Data); err == nil {
				ch.Title = v.Text
			}
		case "WOAR":
			ch.URL = decodeURLFrame(sf.Data)
		case "APIC":
			if v, err := decodeAPIC(sf.Data); err == nil {
				art := types.NewArtwork(v.Data, sniffFromMIME(v.MIME, v.Data))
				ch.Artwork = &art
			}
		}
	}
	return ch
}

func reorderByChildIDs(chapters []types.Chapter, order []string) []types.Chapter {
	byID := make(map[string]types.Chapter, len(chapters))
	for _, c := range chapters {
		byID[c.ID] = c
	}
	out := make([]types.Chapter, 0, len(chapters))
	for _, id := range order {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	if len(out) != len(chapters) {
		return chapters
	}
	return out
}

func sniffFromMIME(mime string, data []byte) types.ArtworkFormat {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return types.ArtworkFormatJPEG
	case "image/png":
		return types.ArtworkFormatPNG
	}
	if art, err := types.DetectArtwork(data); err == nil {
		return art.Format()
	}
	return types.ArtworkFormatUnknown
}

func parseLeadingInt(s string) (int, bool) {
	idx := strings.IndexByte(s, '/')
	if idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseLeadingYear(s string) (int, bool) {
	digits := ""
	for _, r := range s {
		if r >= '0' && r <= '9' && len(digits) < 4 {
			digits += string(r)
		} else if len(digits) > 0 {
			break
		}
	}
	if len(digits) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isURLFieldFrame(id string) bool {
	_, ok := urlFieldFrames[id]
	return ok
}

// wrapFrameErr maps a grammar-level decode error onto the closed id3v2 error
// taxonomy (§7): truncated-data already arrives as its own typed kind and
// passes through unchanged; the binary layer's invalid-encoding-byte error
// becomes invalid-text-encoding(byte); anything else (a bad enum byte, an
// out-of-range sub-field) becomes invalid-frame(id, reason).
func wrapFrameErr(frameID string, err error) error {
	switch e := err.(type) {
	case *types.TruncatedDataError:
		return e
	case *binary.InvalidEncodingByteError:
		return &types.InvalidTextEncodingError{Byte: e.Byte}
	default:
		return &types.InvalidFrameError{ID: frameID, Reason: err.Error()}
	}
}
