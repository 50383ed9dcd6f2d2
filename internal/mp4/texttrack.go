package mp4

import (
	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

// textTrackTimescale is the media timescale used for the synthesized
// QuickTime chapter text track, per the spec's chapter text-track recipe.
const textTrackTimescale = 1000

// chapterSample is one encoded text-track sample: a 2-byte length-prefixed
// UTF-8 title, with an optional trailing "href" sub-atom when URL is set.
type chapterSample struct {
	bytes      []byte
	durationMs uint32
}

// buildChapterSamples renders each chapter into its text-track sample bytes
// and the sample's duration, derived from the gap to the next chapter (or to
// audioDuration for the last one).
func buildChapterSamples(chapters types.ChapterList, audioDuration *types.AudioTimestamp) []chapterSample {
	withEnds := chapters.DeriveEndTimes(audioDuration)
	items := withEnds.Items()
	samples := make([]chapterSample, 0, len(items))
	for _, ch := range items {
		w := binary.NewWriter()
		titleBytes := []byte(ch.Title)
		w.U16(uint16(len(titleBytes)))
		w.Append(titleBytes)
		if ch.URL != "" {
			w.Append(hrefAtom(ch.URL))
		}

		durationMs := uint32(1000)
		if ch.End != nil {
			d := ch.End.Seconds() - ch.Start.Seconds()
			if d > 0 {
				durationMs = uint32(d * 1000)
			}
		}
		samples = append(samples, chapterSample{bytes: w.Bytes(), durationMs: durationMs})
	}
	return samples
}

// hrefAtom builds the optional inline href sub-atom: size,"href",flags(2),
// textCharCount(2),urlLen(1),url bytes,terminator(2 zero bytes).
func hrefAtom(url string) []byte {
	urlBytes := []byte(url)
	w := binary.NewWriter()
	body := binary.NewWriter()
	body.U16(0x0001) // autoplay
	body.U16(uint16(len(urlBytes)))
	body.U8(byte(len(urlBytes)))
	body.Append(urlBytes)
	body.U16(0)
	payload := body.Bytes()
	w.U32(uint32(8 + len(payload)))
	w.Append([]byte("href"))
	w.Append(payload)
	return w.Bytes()
}

func buildAtom(atomType string, payload []byte) []byte {
	w := binary.NewWriter()
	w.U32(uint32(8 + len(payload)))
	w.Append([]byte(atomType))
	w.Append(payload)
	return w.Bytes()
}

func buildContainerAtom(atomType string, children ...[]byte) []byte {
	var total int
	for _, c := range children {
		total += len(c)
	}
	payload := make([]byte, 0, total)
	for _, c := range children {
		payload = append(payload, c...)
	}
	return buildAtom(atomType, payload)
}

// stcoSlot records where, in the final moov buffer, a placeholder 32-bit
// chunk offset was written and needs patching once absolute file offsets
// are known.
type stcoSlot struct {
	bufferOffset int // byte offset within the moov buffer of the 4-byte value
}

// buildChapterTrak builds the synthesized chapter text track (tkhd disabled,
// mdia/minf/stbl, stco placeholders) and returns the trak bytes plus the
// offsets (relative to the start of the returned trak bytes) of each stco
// placeholder slot, in sample order.
func buildChapterTrak(trackID uint32, samples []chapterSample) (trakBytes []byte, stcoSlots []int) {
	tkhd := buildTkhd(trackID, true)

	mdhd := buildMdhd(textTrackTimescale, sumDurations(samples))
	hdlr := buildHdlr("text", "ChapterHandler")

	gmin := buildAtom("gmin", concat(
		u32Bytes(0), // version/flags
		[]byte{0, 64, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	))
	gmhd := buildContainerAtom("gmhd", gmin)

	urlAtom := buildAtom("url ", []byte{0, 0, 0, 1})
	dref := buildAtom("dref", concat(u32Bytes(0), u32Bytes(1), urlAtom))
	dinf := buildContainerAtom("dinf", dref)

	stsd := buildTextStsd()
	stts := buildStts(samples)
	stsc := buildStscOneSamplePerChunk(len(samples))
	stsz := buildStsz(samples)

	// stco is built with zero placeholders; caller patches after the
	// enclosing moov's absolute offsets are known.
	stco, localSlots := buildStcoPlaceholders(len(samples))
	stbl := buildContainerAtom("stbl", stsd, stts, stsc, stsz, stco)

	minf := buildContainerAtom("minf", gmhd, dinf, stbl)

	mdia := buildContainerAtom("mdia", mdhd, hdlr, minf)
	trak := buildContainerAtom("trak", tkhd, mdia)

	// stco slots are relative to the start of `stco`'s payload within trak;
	// translate to offsets relative to the whole trak buffer.
	stcoOffsetInTrak := indexOf(trak, stco)
	slots := make([]int, len(localSlots))
	for i, s := range localSlots {
		slots[i] = stcoOffsetInTrak + s
	}
	return trak, slots
}

// buildArtworkTrak builds a minimal QuickTime video track carrying one
// sample per entry of images, in order. Identical images are not merged
// into a shared sample: collectChapterArtwork passes one image for every
// chapter that has artwork.
func buildArtworkTrak(trackID uint32, images [][]byte, sampleDurationsMs []uint32) (trakBytes []byte, stcoSlots []int) {
	tkhd := buildTkhd(trackID, true)
	mdhd := buildMdhd(textTrackTimescale, sumUint32(sampleDurationsMs))
	hdlr := buildHdlr("vide", "ArtworkHandler")

	vmhd := buildAtom("vmhd", concat(u32Bytes(1), []byte{0, 0, 0, 0, 0, 0, 0, 0}))
	urlAtom := buildAtom("url ", []byte{0, 0, 0, 1})
	dref := buildAtom("dref", concat(u32Bytes(0), u32Bytes(1), urlAtom))
	dinf := buildContainerAtom("dinf", dref)

	stsd := buildVideoStsd()
	stts := buildSttsFromMs(sampleDurationsMs)
	stsc := buildStscOneSamplePerChunk(len(images))
	sizes := make([]uint32, len(images))
	for i, img := range images {
		sizes[i] = uint32(len(img))
	}
	stsz := buildStszFromSizes(sizes)
	stco, localSlots := buildStcoPlaceholders(len(images))
	stbl := buildContainerAtom("stbl", stsd, stts, stsc, stsz, stco)
	minf := buildContainerAtom("minf", vmhd, dinf, stbl)
	mdia := buildContainerAtom("mdia", mdhd, hdlr, minf)
	trak := buildContainerAtom("trak", tkhd, mdia)

	stcoOffsetInTrak := indexOf(trak, stco)
	slots := make([]int, len(localSlots))
	for i, s := range localSlots {
		slots[i] = stcoOffsetInTrak + s
	}
	return trak, slots
}

func buildTkhd(trackID uint32, disabled bool) []byte {
	flags := uint32(0x000001) // enabled
	if disabled {
		flags = 0x000000
	}
	w := binary.NewWriter()
	w.U8(0)
	w.Append([]byte{byte(flags >> 16), byte(flags >> 8), byte(flags)})
	w.U32(0) // creation time
	w.U32(0) // modification time
	w.U32(trackID)
	w.U32(0) // reserved
	w.U32(0) // duration (filled by players from edts/media)
	w.Fill(0, 8)
	w.U16(0) // layer
	w.U16(0) // alternate group
	w.U16(0) // volume
	w.U16(0) // reserved
	for _, v := range []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		w.U32(v) // unity matrix: 16.16 fixed point, 2.30 for the last column
	}
	w.U32(0) // width
	w.U32(0) // height
	return buildAtom("tkhd", w.Bytes())
}

func buildMdhd(timescale uint32, duration uint32) []byte {
	w := binary.NewWriter()
	w.U32(0) // version/flags
	w.U32(0) // creation time
	w.U32(0) // modification time
	w.U32(timescale)
	w.U32(duration)
	w.U16(0x55C4) // language: undetermined
	w.U16(0)      // quality
	return buildAtom("mdhd", w.Bytes())
}

func buildHdlr(subtype, name string) []byte {
	w := binary.NewWriter()
	w.U32(0) // version/flags
	w.Append([]byte("mhlr"))
	w.Append([]byte(subtype))
	w.Fill(0, 12) // manufacturer/reserved
	nameBytes := append([]byte(name), 0)
	w.Append(nameBytes)
	return buildAtom("hdlr", w.Bytes())
}

func buildTextStsd() []byte {
	w := binary.NewWriter()
	w.U32(0) // display flags
	w.U32(1) // text justification
	w.Fill(0, 12) // background color
	w.Fill(0, 8)  // default text box
	w.U32(0)      // reserved
	w.U16(0)      // font number
	w.U16(0)      // font face
	w.U8(0)       // reserved
	w.U16(0)      // reserved
	w.Fill(0, 8) // foreground color
	entry := buildAtom("text", w.Bytes())
	return buildAtom("stsd", concat(u32Bytes(0), u32Bytes(1), entry))
}

func buildVideoStsd() []byte {
	w := binary.NewWriter()
	w.U16(0) // version
	w.U16(0) // revision
	w.U32(0) // vendor
	w.U32(0) // temporal quality
	w.U32(0) // spatial quality
	w.U16(0) // width
	w.U16(0) // height
	w.U32(0x00480000) // horizontal resolution 72dpi
	w.U32(0x00480000) // vertical resolution 72dpi
	w.U32(0)          // data size
	w.U16(1)          // frame count
	w.Fill(0, 32)     // compressor name
	w.U16(24)         // depth
	w.U16(0xFFFF)     // color table id
	entry := buildAtom("jpeg", w.Bytes())
	return buildAtom("stsd", concat(u32Bytes(0), u32Bytes(1), entry))
}

func buildStts(samples []chapterSample) []byte {
	ms := make([]uint32, len(samples))
	for i, s := range samples {
		ms[i] = s.durationMs
	}
	return buildSttsFromMs(ms)
}

func buildSttsFromMs(ms []uint32) []byte {
	w := binary.NewWriter()
	w.U32(0) // version/flags
	w.U32(uint32(len(ms)))
	for _, d := range ms {
		w.U32(1)
		w.U32(d)
	}
	return buildAtom("stts", w.Bytes())
}

func buildStscOneSamplePerChunk(count int) []byte {
	w := binary.NewWriter()
	w.U32(0) // version/flags
	w.U32(uint32(count))
	for i := 0; i < count; i++ {
		w.U32(uint32(i + 1)) // first chunk
		w.U32(1)             // samples per chunk
		w.U32(1)             // sample description index
	}
	return buildAtom("stsc", w.Bytes())
}

func buildStsz(samples []chapterSample) []byte {
	sizes := make([]uint32, len(samples))
	for i, s := range samples {
		sizes[i] = uint32(len(s.bytes))
	}
	return buildStszFromSizes(sizes)
}

func buildStszFromSizes(sizes []uint32) []byte {
	w := binary.NewWriter()
	w.U32(0) // version/flags
	w.U32(0) // uniform size: 0 means use table
	w.U32(uint32(len(sizes)))
	for _, sz := range sizes {
		w.U32(sz)
	}
	return buildAtom("stsz", w.Bytes())
}

// buildStcoPlaceholders writes a stco atom with `count` zero-valued 32-bit
// entries and returns the byte offset (from the start of the returned atom)
// of each entry's value, for later patching.
func buildStcoPlaceholders(count int) ([]byte, []int) {
	w := binary.NewWriter()
	w.U32(0) // version/flags
	w.U32(uint32(count))
	headerLen := w.Len() + 8 // + size/type
	slots := make([]int, count)
	for i := 0; i < count; i++ {
		slots[i] = headerLen + i*4
		w.U32(0)
	}
	return buildAtom("stco", w.Bytes()), slots
}

func sumDurations(samples []chapterSample) uint32 {
	var total uint32
	for _, s := range samples {
		total += s.durationMs
	}
	return total
}

func sumUint32(vs []uint32) uint32 {
	var total uint32
	for _, v := range vs {
		total += v
	}
	return total
}

func u32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func concat(parts ...[]byte) []byte {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// indexOf returns the byte offset of needle within haystack (by identity of
// content, first match), or -1. Used right after construction so the
// needle's bytes are unique within the freshly built trak.
func indexOf(haystack, needle []byte) int {
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		if string(haystack[i:i+n]) == string(needle) {
			return i
		}
	}
	return -1
}
