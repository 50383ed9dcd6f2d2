package mp4

import (
	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

// RebuildResult is the output of rebuilding moov: the new moov atom bytes
// (with zero-valued chunk-offset placeholders for the synthesized tracks),
// the sample payloads to append to mdat after the original audio payload,
// and the slot positions (byte
// offsets within the returned Bytes) that need patching once the final
// file layout is known.
type RebuildResult struct {
	Bytes              []byte
	ChapterSamples     [][]byte
	ChapterStcoSlots   []int
	ArtworkSamples     [][]byte
	ArtworkStcoSlots   []int
}

// RebuildOptions carries content that Modify preserves from the original
// file but Write and Strip do not: opaque udta siblings of meta/chpl, and
// opaque ilst entries not in the recognised tag-key set. OmitUdta skips
// emitting udta entirely, used by Strip's "remove everything" semantics.
type RebuildOptions struct {
	PreserveUdtaExtras [][]byte
	PreserveIlstExtras [][]byte
	OmitUdta           bool
}

// RebuildMoov copies the original moov's non-chapter tracks, drops any
// existing QuickTime chapter text tracks referenced from the audio track,
// and appends freshly built chapter (and, when present, artwork) tracks,
// plus a freshly built udta/meta/ilst and Nero chpl atom. This is the heart
// of the MP4 write path: every other moov child is preserved byte-for-byte.
func RebuildMoov(doc *Document, metadata types.AudioMetadata, chapters types.ChapterList, duration *types.AudioTimestamp, opts RebuildOptions) (*RebuildResult, error) {
	mvhdPayload, err := doc.Payload(doc.Moov.Find("mvhd"))
	if err != nil {
		return nil, err
	}

	maxTrackID, err := doc.maxTrackID()
	if err != nil {
		return nil, err
	}

	oldChapterTrackIDs := doc.oldChapterTrackIDs()
	chapterTrackID := maxTrackID + 1

	var keptChildren [][]byte
	for _, child := range doc.Moov.Children {
		switch {
		case child.Type == "udta":
			continue // rebuilt below
		case child.Type == "mvhd":
			continue // re-emitted first below
		case child.Type == "trak" && oldChapterTrackIDs[trakID(doc, child)]:
			continue // dropped chapter track
		case child.Type == "trak" && isAudioTrak(doc, child) && chapters.Len() > 0:
			raw, err := rewriteAudioTrakChapterRef(doc, child, chapterTrackID)
			if err != nil {
				return nil, err
			}
			keptChildren = append(keptChildren, raw)
		default:
			raw, err := rawAtomBytes(doc, child)
			if err != nil {
				return nil, err
			}
			keptChildren = append(keptChildren, raw)
		}
	}

	result := &RebuildResult{}

	if chapters.Len() > 0 {
		samples := buildChapterSamples(chapters, duration)
		trakBytes, slots := buildChapterTrak(chapterTrackID, samples)
		base := sumChildLens(keptChildren) + lenMvhd(mvhdPayload)
		result.ChapterStcoSlots = offsetSlots(base, slots)
		for _, s := range samples {
			result.ChapterSamples = append(result.ChapterSamples, s.bytes)
		}
		keptChildren = append(keptChildren, trakBytes)
	}

	artworkTrackID := chapterTrackID + 1
	images, durations := collectChapterArtwork(chapters)
	if len(images) > 0 {
		trakBytes, slots := buildArtworkTrak(artworkTrackID, images, durations)
		base := sumChildLens(keptChildren) + lenMvhd(mvhdPayload)
		result.ArtworkStcoSlots = offsetSlots(base, slots)
		result.ArtworkSamples = images
		keptChildren = append(keptChildren, trakBytes)
	}

	mvhd := buildAtom("mvhd", mvhdPayload)
	all := append([][]byte{mvhd}, keptChildren...)
	if !opts.OmitUdta {
		udta := buildUdta(metadata, chapters, opts.PreserveUdtaExtras, opts.PreserveIlstExtras)
		all = append(all, udta)
	}

	moovBytes := buildContainerAtom("moov", all...)

	result.Bytes = moovBytes
	return result, nil
}

func lenMvhd(payload []byte) int { return 8 + len(payload) }

func sumChildLens(children [][]byte) int {
	total := 0
	for _, c := range children {
		total += len(c)
	}
	return total
}

// offsetSlots translates slot positions (relative to the start of a trak
// that will be appended after `base` bytes already written, plus the moov
// atom's own 8-byte header) into absolute offsets within the final moov
// buffer.
func offsetSlots(base int, localSlots []int) []int {
	out := make([]int, len(localSlots))
	for i, s := range localSlots {
		out[i] = 8 + base + s // +8 for moov's own size+type header
	}
	return out
}

func (d *Document) maxTrackID() (uint32, error) {
	var max uint32
	for _, trak := range d.Moov.Children {
		if trak.Type != "trak" {
			continue
		}
		id := trakID(d, trak)
		if id > max {
			max = id
		}
	}
	return max, nil
}

func trakID(d *Document, trak *Atom) uint32 {
	tkhd := trak.Find("tkhd")
	if tkhd == nil {
		return 0
	}
	payload, err := d.Payload(tkhd)
	if err != nil {
		return 0
	}
	if len(payload) >= 1 && payload[0] == 1 {
		if len(payload) >= 24 {
			return be32u(payload[20:24])
		}
		return 0
	}
	if len(payload) >= 16 {
		return be32u(payload[12:16])
	}
	return 0
}

func isAudioTrak(d *Document, trak *Atom) bool {
	handler, err := d.handlerType(trak)
	return err == nil && handler == "soun"
}

// rewriteAudioTrakChapterRef returns the audio trak's bytes with its
// tref/chap track-id table pointed at newChapterTrackID. The table's entry
// count is preserved (no resize, so no sibling offsets shift): the first
// slot is overwritten with the new id and any additional slots are zeroed.
// If there is no existing tref/chap, one is appended as a new trak child.
func rewriteAudioTrakChapterRef(d *Document, trak *Atom, newChapterTrackID uint32) ([]byte, error) {
	payload, err := d.Payload(trak)
	if err != nil {
		return nil, err
	}
	payload = append([]byte(nil), payload...)

	chap := trak.FindPath("tref", "chap")
	if chap == nil {
		extra := buildContainerAtom("tref", buildAtom("chap", u32Bytes(newChapterTrackID)))
		return buildAtom(trak.Type, append(payload, extra...)), nil
	}

	relOffset := int(chap.PayloadOffset() - trak.PayloadOffset())
	relSize := int(chap.PayloadSize())
	if relOffset < 0 || relOffset+relSize > len(payload) || relSize < 4 {
		return buildAtom(trak.Type, payload), nil
	}
	putBE32(payload[relOffset:relOffset+4], newChapterTrackID)
	for i := relOffset + 4; i+4 <= relOffset+relSize; i += 4 {
		putBE32(payload[i:i+4], 0)
	}
	return buildAtom(trak.Type, payload), nil
}

// oldChapterTrackIDs returns the set of track ids the rebuild replaces:
// those referenced by the audio track's tref/chap, plus any other track
// whose handler is "text" or "sbtl" — a chapter track can lose its
// tref/chap reference (or never have had one written correctly) and still
// be chapter-track-shaped, and rebuilding must not leave it as orphaned
// cruft in the new moov.
func (d *Document) oldChapterTrackIDs() map[uint32]bool {
	ids := map[uint32]bool{}
	audioTrak, err := d.AudioTrack()
	if err == nil {
		if tref := audioTrak.Find("tref"); tref != nil {
			if chap := tref.Find("chap"); chap != nil {
				if payload, err := d.Payload(chap); err == nil {
					for i := 0; i+4 <= len(payload); i += 4 {
						ids[be32u(payload[i:i+4])] = true
					}
				}
			}
		}
	}

	for _, trak := range d.Moov.Children {
		if trak.Type != "trak" {
			continue
		}
		handler, err := d.handlerType(trak)
		if err != nil {
			continue
		}
		if handler == "text" || handler == "sbtl" {
			ids[trakID(d, trak)] = true
		}
	}

	return ids
}

// rawAtomBytes reads an atom's full on-disk bytes (header + payload)
// verbatim, applying the stored size as a fresh 32-bit header (64-bit
// extended sizes are never re-emitted since rebuilt atoms are always
// small enough for a 32-bit size).
func rawAtomBytes(d *Document, a *Atom) ([]byte, error) {
	payload, err := d.Payload(a)
	if err != nil {
		return nil, err
	}
	return buildAtom(a.Type, payload), nil
}

func collectChapterArtwork(chapters types.ChapterList) (images [][]byte, durationsMs []uint32) {
	items := chapters.Items()
	for i, ch := range items {
		if ch.Artwork == nil {
			continue
		}
		images = append(images, ch.Artwork.Data())
		dur := uint32(1000)
		if i+1 < len(items) {
			d := items[i+1].Start.Seconds() - ch.Start.Seconds()
			if d > 0 {
				dur = uint32(d * 1000)
			}
		}
		durationsMs = append(durationsMs, dur)
	}
	return images, durationsMs
}

// buildUdta builds the udta atom carrying the Nero chpl chapter list and a
// meta/ilst metadata atom mirroring the fields in m, plus any preserved
// opaque udta/ilst children carried over from Modify.
func buildUdta(m types.AudioMetadata, chapters types.ChapterList, udtaExtras, ilstExtras [][]byte) []byte {
	var children [][]byte
	if chapters.Len() > 0 {
		children = append(children, buildChpl(chapters))
	}
	children = append(children, buildMeta(m, ilstExtras))
	children = append(children, udtaExtras...)
	return buildContainerAtom("udta", children...)
}

func buildChpl(chapters types.ChapterList) []byte {
	items := chapters.Items()
	w := binary.NewWriter()
	w.U8(1) // version
	w.Fill(0, 3)
	w.U8(byte(len(items)))
	for _, ch := range items {
		units := uint64(ch.Start.Seconds() * 10_000_000)
		w.U64(units)
		titleBytes := []byte(ch.Title)
		if len(titleBytes) > 255 {
			titleBytes = titleBytes[:255]
		}
		w.U8(byte(len(titleBytes)))
		w.Append(titleBytes)
	}
	return buildAtom("chpl", w.Bytes())
}

var fieldToTagKey = map[string]func(types.AudioMetadata) (string, bool){
	"\xa9nam": func(m types.AudioMetadata) (string, bool) { return m.Title, m.Title != "" },
	"\xa9ART": func(m types.AudioMetadata) (string, bool) { return m.Artist, m.Artist != "" },
	"\xa9alb": func(m types.AudioMetadata) (string, bool) { return m.Album, m.Album != "" },
	"\xa9gen": func(m types.AudioMetadata) (string, bool) { return m.Genre, m.Genre != "" },
	"\xa9wrt": func(m types.AudioMetadata) (string, bool) { return m.Composer, m.Composer != "" },
	"\xa9cmt": func(m types.AudioMetadata) (string, bool) { return m.Comment, m.Comment != "" },
	"\xa9too": func(m types.AudioMetadata) (string, bool) { return m.Encoder, m.Encoder != "" },
	"\xa9lyr": func(m types.AudioMetadata) (string, bool) { return m.UnsynchronizedLyrics, m.UnsynchronizedLyrics != "" },
	"aART":    func(m types.AudioMetadata) (string, bool) { return m.AlbumArtist, m.AlbumArtist != "" },
	"cprt":    func(m types.AudioMetadata) (string, bool) { return m.Copyright, m.Copyright != "" },
}

func buildMeta(m types.AudioMetadata, ilstExtras [][]byte) []byte {
	var entries [][]byte
	entries = append(entries, ilstExtras...)
	for key, get := range fieldToTagKey {
		if v, ok := get(m); ok {
			entries = append(entries, buildTextIlstEntry(key, v))
		}
	}
	if m.HasYear {
		entries = append(entries, buildTextIlstEntry("\xa9day", itoa(m.Year)))
	}
	if m.HasTrackNumber {
		entries = append(entries, buildNumberPairEntry("trkn", m.TrackNumber))
	}
	if m.HasDiscNumber {
		entries = append(entries, buildNumberPairEntry("disk", m.DiscNumber))
	}
	if m.HasBPM {
		entries = append(entries, buildTmpoEntry(m.BPM))
	}
	if m.Artwork != nil {
		entries = append(entries, buildCovrEntry(*m.Artwork))
	}
	for key, value := range m.CustomText {
		entries = append(entries, buildReverseDNSEntry(key, value))
	}

	ilst := buildContainerAtom("ilst", entries...)
	metaPayload := concat(u32Bytes(0), ilst)
	return buildAtom("meta", metaPayload)
}

func buildDataAtom(typeIndicator uint32, value []byte) []byte {
	w := binary.NewWriter()
	w.U32(typeIndicator)
	w.U32(0) // locale
	w.Append(value)
	return buildAtom("data", w.Bytes())
}

func buildTextIlstEntry(key, value string) []byte {
	data := buildDataAtom(1, []byte(value)) // type 1: UTF-8
	return buildAtom(key, data)
}

func buildNumberPairEntry(atomType string, n int) []byte {
	w := binary.NewWriter()
	w.U16(0)
	w.U16(uint16(n))
	w.U16(0)
	data := buildDataAtom(0, w.Bytes())
	return buildAtom(atomType, data)
}

func buildTmpoEntry(bpm int) []byte {
	w := binary.NewWriter()
	w.U16(uint16(bpm))
	data := buildDataAtom(21, w.Bytes()) // type 21: BE signed/unsigned integer
	return buildAtom("tmpo", data)
}

func buildCovrEntry(art types.Artwork) []byte {
	typeIndicator := uint32(0)
	switch art.Format() {
	case types.ArtworkFormatJPEG:
		typeIndicator = 13
	case types.ArtworkFormatPNG:
		typeIndicator = 14
	}
	data := buildDataAtom(typeIndicator, art.Data())
	return buildAtom("covr", data)
}

func buildReverseDNSEntry(key, value string) []byte {
	mean := "com.apple.iTunes"
	name := key
	if idx := indexByte(key, ':'); idx >= 0 {
		mean = key[:idx]
		name = key[idx+1:]
	}
	meanAtom := buildAtom("mean", concat(u32Bytes(0), []byte(mean)))
	nameAtom := buildAtom("name", concat(u32Bytes(0), []byte(name)))
	dataAtom := buildDataAtom(1, []byte(value))
	return buildContainerAtom("----", meanAtom, nameAtom, dataAtom)
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}
