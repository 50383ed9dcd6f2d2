package mp4

import (
	"github.com/atelier-socle/audiomark/internal/types"
)

// ExtractChapters tries Nero chpl first, then the QuickTime text chapter
// track; the first non-empty source wins.
func (d *Document) ExtractChapters() (types.ChapterList, error) {
	chpl := d.Moov.FindPath("udta", "chpl")
	if chpl != nil {
		chapters, err := d.parseChpl(chpl)
		if err == nil && len(chapters) > 0 {
			return types.NewChapterList(chapters), nil
		}
	}

	chapters, err := d.parseQuickTimeChapters()
	if err != nil {
		return types.ChapterList{}, nil //nolint:nilerr // absent chapters are not an error
	}
	return types.NewChapterList(chapters), nil
}

func (d *Document) parseChpl(chpl *Atom) ([]types.Chapter, error) {
	payload, err := d.Payload(chpl)
	if err != nil {
		return nil, err
	}
	if len(payload) < 5 {
		return nil, &types.InvalidAtomError{AtomType: "chpl", Reason: "too small"}
	}
	count := payload[4]
	pos := 5
	var chapters []types.Chapter
	for i := byte(0); i < count; i++ {
		if pos+9 > len(payload) {
			break
		}
		startUnits := be64u(payload[pos : pos+8])
		titleLen := int(payload[pos+8])
		pos += 9
		if pos+titleLen > len(payload) {
			break
		}
		title := string(payload[pos : pos+titleLen])
		pos += titleLen

		startSeconds := float64(startUnits) / 10_000_000.0
		chapters = append(chapters, types.Chapter{
			ID:    "",
			Start: types.NewAudioTimestamp(startSeconds),
			Title: title,
		})
	}
	return chapters, nil
}

func (d *Document) parseQuickTimeChapters() ([]types.Chapter, error) {
	audioTrak, err := d.AudioTrack()
	if err != nil {
		return nil, err
	}
	tref := audioTrak.Find("tref")
	if tref == nil {
		return nil, &types.AtomNotFoundError{AtomType: "tref"}
	}
	chap := tref.Find("chap")
	if chap == nil {
		return nil, &types.AtomNotFoundError{AtomType: "chap"}
	}
	payload, err := d.Payload(chap)
	if err != nil {
		return nil, err
	}

	var trackIDs []uint32
	for i := 0; i+4 <= len(payload); i += 4 {
		trackIDs = append(trackIDs, be32u(payload[i:i+4]))
	}

	for _, tid := range trackIDs {
		trak := d.findTrakByID(tid)
		if trak == nil {
			continue
		}
		handler, err := d.handlerType(trak)
		if err != nil || (handler != "text" && handler != "sbtl") {
			continue
		}
		chapters, err := d.readTextTrackChapters(trak)
		if err == nil && len(chapters) > 0 {
			return chapters, nil
		}
	}
	return nil, &types.AtomNotFoundError{AtomType: "chapter text track"}
}

func (d *Document) findTrakByID(id uint32) *Atom {
	for _, trak := range d.Moov.Children {
		if trak.Type != "trak" {
			continue
		}
		tkhd := trak.Find("tkhd")
		if tkhd == nil {
			continue
		}
		payload, err := d.Payload(tkhd)
		if err != nil {
			continue
		}
		var trackID uint32
		if len(payload) >= 1 && payload[0] == 1 {
			if len(payload) >= 24 {
				trackID = be32u(payload[20:24])
			}
		} else if len(payload) >= 16 {
			trackID = be32u(payload[12:16])
		}
		if trackID == id {
			return trak
		}
	}
	return nil
}

func (d *Document) readTextTrackChapters(trak *Atom) ([]types.Chapter, error) {
	stbl := trak.FindPath("mdia", "minf", "stbl")
	if stbl == nil {
		return nil, &types.AtomNotFoundError{AtomType: "stbl"}
	}
	mdhd := trak.FindPath("mdia", "mdhd")
	timescale, err := d.mediaTimescale(mdhd)
	if err != nil {
		return nil, err
	}

	durations, err := d.readSTTS(stbl.Find("stts"))
	if err != nil {
		return nil, err
	}
	sizes, err := d.readSTSZ(stbl.Find("stsz"))
	if err != nil {
		return nil, err
	}
	offsets, err := d.readChunkOffsets(stbl)
	if err != nil {
		return nil, err
	}

	n := len(sizes)
	if len(offsets) < n {
		n = len(offsets)
	}
	if len(durations) < n {
		n = len(durations)
	}

	var chapters []types.Chapter
	var cumulative uint64
	for i := 0; i < n; i++ {
		title, url, err := d.readTextSample(offsets[i], sizes[i])
		if err != nil {
			continue
		}
		startSeconds := float64(cumulative) / float64(timescale)
		chapters = append(chapters, types.Chapter{
			Start: types.NewAudioTimestamp(startSeconds),
			Title: title,
			URL:   url,
		})
		cumulative += uint64(durations[i])
	}
	return chapters, nil
}

func (d *Document) mediaTimescale(mdhd *Atom) (uint32, error) {
	if mdhd == nil {
		return 0, &types.AtomNotFoundError{AtomType: "mdhd"}
	}
	payload, err := d.Payload(mdhd)
	if err != nil {
		return 0, err
	}
	if len(payload) < 1 {
		return 0, &types.InvalidAtomError{AtomType: "mdhd", Reason: "empty"}
	}
	if payload[0] == 1 {
		if len(payload) < 28 {
			return 0, &types.InvalidAtomError{AtomType: "mdhd", Reason: "too small for version 1"}
		}
		return be32u(payload[20:24]), nil
	}
	if len(payload) < 16 {
		return 0, &types.InvalidAtomError{AtomType: "mdhd", Reason: "too small for version 0"}
	}
	return be32u(payload[12:16]), nil
}

func (d *Document) readSTTS(stts *Atom) ([]uint32, error) {
	if stts == nil {
		return nil, &types.AtomNotFoundError{AtomType: "stts"}
	}
	payload, err := d.Payload(stts)
	if err != nil {
		return nil, err
	}
	if len(payload) < 8 {
		return nil, &types.InvalidAtomError{AtomType: "stts", Reason: "too small"}
	}
	entryCount := be32u(payload[4:8])
	var durations []uint32
	pos := 8
	for i := uint32(0); i < entryCount; i++ {
		if pos+8 > len(payload) {
			break
		}
		count := be32u(payload[pos : pos+4])
		delta := be32u(payload[pos+4 : pos+8])
		for j := uint32(0); j < count; j++ {
			durations = append(durations, delta)
		}
		pos += 8
	}
	return durations, nil
}

func (d *Document) readSTSZ(stsz *Atom) ([]uint32, error) {
	if stsz == nil {
		return nil, &types.AtomNotFoundError{AtomType: "stsz"}
	}
	payload, err := d.Payload(stsz)
	if err != nil {
		return nil, err
	}
	if len(payload) < 12 {
		return nil, &types.InvalidAtomError{AtomType: "stsz", Reason: "too small"}
	}
	uniformSize := be32u(payload[4:8])
	count := be32u(payload[8:12])
	sizes := make([]uint32, 0, count)
	if uniformSize != 0 {
		for i := uint32(0); i < count; i++ {
			sizes = append(sizes, uniformSize)
		}
		return sizes, nil
	}
	pos := 12
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(payload) {
			break
		}
		sizes = append(sizes, be32u(payload[pos:pos+4]))
		pos += 4
	}
	return sizes, nil
}

func (d *Document) readChunkOffsets(stbl *Atom) ([]uint64, error) {
	if stco := stbl.Find("stco"); stco != nil {
		payload, err := d.Payload(stco)
		if err != nil {
			return nil, err
		}
		if len(payload) < 8 {
			return nil, &types.InvalidAtomError{AtomType: "stco", Reason: "too small"}
		}
		count := be32u(payload[4:8])
		offsets := make([]uint64, 0, count)
		pos := 8
		for i := uint32(0); i < count; i++ {
			if pos+4 > len(payload) {
				break
			}
			offsets = append(offsets, uint64(be32u(payload[pos:pos+4])))
			pos += 4
		}
		return offsets, nil
	}
	if co64 := stbl.Find("co64"); co64 != nil {
		payload, err := d.Payload(co64)
		if err != nil {
			return nil, err
		}
		if len(payload) < 8 {
			return nil, &types.InvalidAtomError{AtomType: "co64", Reason: "too small"}
		}
		count := be32u(payload[4:8])
		offsets := make([]uint64, 0, count)
		pos := 8
		for i := uint32(0); i < count; i++ {
			if pos+8 > len(payload) {
				break
			}
			offsets = append(offsets, uint64(be64u(payload[pos:pos+8])))
			pos += 8
		}
		return offsets, nil
	}
	return nil, &types.AtomNotFoundError{AtomType: "stco/co64"}
}

// readTextSample reads a 2-byte length-prefixed UTF-8 title plus an
// optional inline "href" sub-atom, from an absolute file offset.
func (d *Document) readTextSample(offset uint64, size uint32) (title string, url string, err error) {
	buf, err := d.Reader.Read(int64(offset), int64(size))
	if err != nil {
		return "", "", err
	}
	if len(buf) < 2 {
		return "", "", &types.InvalidAtomError{AtomType: "chapter-sample", Reason: "too small"}
	}
	textLen := int(be16u(buf[0:2]))
	if 2+textLen > len(buf) {
		textLen = len(buf) - 2
	}
	title = string(buf[2 : 2+textLen])

	rest := buf[2+textLen:]
	if len(rest) >= 12 && string(rest[4:8]) == "href" {
		urlLenPos := 12 // size(4) + "href"(4) + flags(2) + textCharCount(2)
		if urlLenPos < len(rest) {
			urlLen := int(rest[urlLenPos])
			start := urlLenPos + 1
			if start+urlLen <= len(rest) {
				url = string(rest[start : start+urlLen])
			}
		}
	}
	return title, url, nil
}
