package mp4

import (
	"strconv"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

var tagKeyToField = map[string]func(*types.AudioMetadata, string){
	"\xa9nam": func(m *types.AudioMetadata, v string) { m.Title = v },
	"\xa9ART": func(m *types.AudioMetadata, v string) { m.Artist = v },
	"\xa9alb": func(m *types.AudioMetadata, v string) { m.Album = v },
	"\xa9gen": func(m *types.AudioMetadata, v string) { m.Genre = v },
	"\xa9wrt": func(m *types.AudioMetadata, v string) { m.Composer = v },
	"\xa9cmt": func(m *types.AudioMetadata, v string) { m.Comment = v },
	"\xa9too": func(m *types.AudioMetadata, v string) { m.Encoder = v },
	"\xa9lyr": func(m *types.AudioMetadata, v string) { m.UnsynchronizedLyrics = v },
	"aART":    func(m *types.AudioMetadata, v string) { m.AlbumArtist = v },
	"cprt":    func(m *types.AudioMetadata, v string) { m.Copyright = v },
}

// Duration reads moov/mvhd and returns seconds, or nil if timescale is zero.
func (d *Document) Duration() (*types.AudioTimestamp, error) {
	mvhd := d.Moov.Find("mvhd")
	if mvhd == nil {
		return nil, &types.AtomNotFoundError{AtomType: "mvhd"}
	}
	payload, err := d.Payload(mvhd)
	if err != nil {
		return nil, err
	}
	if len(payload) < 1 {
		return nil, &types.InvalidAtomError{AtomType: "mvhd", Reason: "empty payload"}
	}

	version := payload[0]
	var timescale uint32
	var duration uint64
	if version == 1 {
		if len(payload) < 32 {
			return nil, &types.InvalidAtomError{AtomType: "mvhd", Reason: "too small for version 1"}
		}
		timescale = be32u(payload[20:24])
		duration = uint64(be64u(payload[24:32]))
	} else {
		if len(payload) < 20 {
			return nil, &types.InvalidAtomError{AtomType: "mvhd", Reason: "too small for version 0"}
		}
		timescale = be32u(payload[12:16])
		duration = uint64(be32u(payload[16:20]))
	}
	if timescale == 0 {
		return nil, nil
	}
	ts := types.NewAudioTimestamp(float64(duration) / float64(timescale))
	return &ts, nil
}

// ExtractMetadata walks moov/udta/meta/ilst and populates an AudioMetadata.
// An ilst child that cannot be read, or whose data atom is malformed, is a
// hard invalid-atom error (§7) — it is never dropped silently.
func (d *Document) ExtractMetadata() (types.AudioMetadata, error) {
	m := types.NewAudioMetadata()

	ilst := d.Moov.FindPath("udta", "meta", "ilst")
	if ilst == nil {
		return m, nil
	}

	var genreFromGnre *string
	for _, child := range ilst.Children {
		payload, err := d.Payload(child)
		if err != nil {
			return types.AudioMetadata{}, &types.InvalidAtomError{AtomType: child.Type, Reason: err.Error()}
		}

		if child.Type == "----" {
			extractReverseDNS(d, child, &m)
			continue
		}

		data := findDataAtomPayload(payload)
		if data == nil {
			return types.AudioMetadata{}, &types.InvalidAtomError{AtomType: child.Type, Reason: "missing data atom"}
		}
		if len(data) < 8 {
			return types.AudioMetadata{}, &types.InvalidAtomError{AtomType: child.Type, Reason: "data atom shorter than its type/locale prefix"}
		}
		typeIndicator := be32u(data[0:4])
		value := data[8:]

		switch child.Type {
		case "trkn":
			if n, ok := trackOrDiscNumber(value); ok {
				m.TrackNumber = n
				m.HasTrackNumber = true
			}
		case "disk":
			if n, ok := trackOrDiscNumber(value); ok {
				m.DiscNumber = n
				m.HasDiscNumber = true
			}
		case "tmpo":
			if len(value) >= 2 {
				m.BPM = int(be16u(value[0:2]))
				m.HasBPM = true
			}
		case "gnre":
			if len(value) >= 2 {
				idx := int(be16u(value[0:2]))
				if name, ok := id3v1GenreName(idx); ok {
					genreFromGnre = &name
				}
			}
		case "covr":
			format := artworkFormatFromTypeIndicator(typeIndicator, value)
			art := types.NewArtwork(value, format)
			m.Artwork = &art
		case "\xa9day":
			if year, ok := leadingYear(string(value)); ok {
				m.Year = year
				m.HasYear = true
			}
		default:
			if set, ok := tagKeyToField[child.Type]; ok {
				set(&m, string(value))
			}
		}
	}

	if m.Genre == "" && genreFromGnre != nil {
		m.Genre = *genreFromGnre
	}

	return m, nil
}

func extractReverseDNS(d *Document, atom *Atom, m *types.AudioMetadata) {
	var mean, name string
	var value []byte
	for _, child := range atom.Children {
		payload, err := d.Payload(child)
		if err != nil || len(payload) < 4 {
			continue
		}
		switch child.Type {
		case "mean":
			mean = string(payload[4:])
		case "name":
			name = string(payload[4:])
		case "data":
			if len(payload) >= 8 {
				value = payload[8:]
			}
		}
	}
	if name == "" {
		return
	}
	key := mean + ":" + name
	m.CustomText[key] = string(value)
}

// findDataAtomPayload scans an ilst child's raw payload for its "data"
// sub-atom and returns that sub-atom's payload (type+locale+value).
func findDataAtomPayload(childPayload []byte) []byte {
	pos := 0
	for pos+8 <= len(childPayload) {
		size := int(be32u(childPayload[pos : pos+4]))
		atype := string(childPayload[pos+4 : pos+8])
		if size < 8 || pos+size > len(childPayload) {
			return nil
		}
		if atype == "data" {
			return childPayload[pos+8 : pos+size]
		}
		pos += size
	}
	return nil
}

func trackOrDiscNumber(value []byte) (int, bool) {
	if len(value) < 4 {
		return 0, false
	}
	return int(be16u(value[2:4])), true
}

func artworkFormatFromTypeIndicator(typeIndicator uint32, data []byte) types.ArtworkFormat {
	switch typeIndicator {
	case 13:
		return types.ArtworkFormatJPEG
	case 14:
		return types.ArtworkFormatPNG
	}
	if art, err := types.DetectArtwork(data); err == nil {
		return art.Format()
	}
	return types.ArtworkFormatUnknown
}

func leadingYear(s string) (int, bool) {
	digits := ""
	for _, r := range s {
		if r >= '0' && r <= '9' && len(digits) < 4 {
			digits += string(r)
		} else {
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

func be32u(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be64u(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = (v << 8) | int64(c)
	}
	return v
}

func be16u(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// id3v1GenreName resolves a 1-based ID3v1 genre index against the 148-entry
// genre table used by the "gnre" atom.
func id3v1GenreName(oneBasedIdx int) (string, bool) {
	idx := oneBasedIdx - 1
	if idx < 0 || idx >= len(id3v1Genres) {
		return "", false
	}
	return id3v1Genres[idx], true
}

var id3v1Genres = []string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel",
	"Noise", "AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic",
	"Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk",
	"Eurodance", "Dream", "Southern Rock", "Comedy", "Cult", "Gangsta",
	"Top 40", "Christian Rap", "Pop/Funk", "Jungle", "Native American",
	"Cabaret", "New Wave", "Psychedelic", "Rave", "Showtunes", "Trailer",
	"Lo-Fi", "Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro",
	"Musical", "Rock & Roll", "Hard Rock", "Folk", "Folk-Rock",
	"National Folk", "Swing", "Fast Fusion", "Bebop", "Latin", "Revival",
	"Celtic", "Bluegrass", "Avantgarde", "Gothic Rock", "Progressive Rock",
	"Psychedelic Rock", "Symphonic Rock", "Slow Rock", "Big Band",
	"Chorus", "Easy Listening", "Acoustic", "Humour", "Speech", "Chanson",
	"Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass", "Primus",
	"Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhythmic Soul", "Freestyle",
	"Duet", "Punk Rock", "Drum Solo", "A Cappella", "Euro-House",
	"Dance Hall", "Goa", "Drum & Bass", "Club-House", "Hardcore",
	"Terror", "Indie", "BritPop", "Afro-Punk", "Polsk Punk", "Beat",
	"Christian Gangsta Rap", "Heavy Metal", "Black Metal", "Crossover",
	"Contemporary Christian", "Christian Rock", "Merengue", "Salsa",
	"Thrash Metal", "Anime", "JPop", "Synthpop",
}
