package id3v2

import (
	"github.com/atelier-socle/audiomark/internal/binary"
)

// chapPayload is the CHAP frame shape: element id, start/end ms, two
// unused byte-offset fields, then a recursively-parsed subframe list.
type chapPayload struct {
	ElementID string
	StartMs   uint32
	EndMs     uint32
	SubFrames []RawFrame
}

func decodeCHAP(b []byte, version Version) (chapPayload, error) {
	r := binary.NewReader(b)
	elementID, err := r.NullTerminatedLatin1()
	if err != nil {
		return chapPayload{}, err
	}
	startMs, err := r.U32()
	if err != nil {
		return chapPayload{}, err
	}
	endMs, err := r.U32()
	if err != nil {
		return chapPayload{}, err
	}
	if _, err := r.U32(); err != nil { // start byte offset, unused
		return chapPayload{}, err
	}
	if _, err := r.U32(); err != nil { // end byte offset, unused
		return chapPayload{}, err
	}
	rest, err := r.Bytes(r.Remaining())
	if err != nil {
		return chapPayload{}, err
	}
	sub, err := ParseFrames(rest, version)
	if err != nil {
		return chapPayload{}, err
	}
	return chapPayload{ElementID: elementID, StartMs: startMs, EndMs: endMs, SubFrames: sub}, nil
}

func encodeCHAP(p chapPayload, version Version) []byte {
	w := binary.NewWriter()
	w.Latin1String(p.ElementID)
	w.Fill(0, 1)
	w.U32(p.StartMs)
	w.U32(p.EndMs)
	w.U32(0xFFFFFFFF)
	w.U32(0xFFFFFFFF)
	for _, sf := range p.SubFrames {
		EncodeFrame(w, sf.ID, version, sf.Flags, sf.Data)
	}
	return w.Bytes()
}

const (
	ctocFlagOrdered  = 0x01
	ctocFlagTopLevel = 0x02
)

// ctocPayload is the CTOC frame shape.
type ctocPayload struct {
	ElementID string
	Ordered   bool
	TopLevel  bool
	ChildIDs  []string
	SubFrames []RawFrame
}

func decodeCTOC(b []byte, version Version) (ctocPayload, error) {
	r := binary.NewReader(b)
	elementID, err := r.NullTerminatedLatin1()
	if err != nil {
		return ctocPayload{}, err
	}
	flags, err := r.U8()
	if err != nil {
		return ctocPayload{}, err
	}
	count, err := r.U8()
	if err != nil {
		return ctocPayload{}, err
	}
	childIDs := make([]string, 0, count)
	for i := byte(0); i < count; i++ {
		id, err := r.NullTerminatedLatin1()
		if err != nil {
			return ctocPayload{}, err
		}
		childIDs = append(childIDs, id)
	}
	rest, err := r.Bytes(r.Remaining())
	if err != nil {
		return ctocPayload{}, err
	}
	sub, err := ParseFrames(rest, version)
	if err != nil {
		return ctocPayload{}, err
	}
	return ctocPayload{
		ElementID: elementID,
		Ordered:   flags&ctocFlagOrdered != 0,
		TopLevel:  flags&ctocFlagTopLevel != 0,
		ChildIDs:  childIDs,
		SubFrames: sub,
	}, nil
}

func encodeCTOC(p ctocPayload, version Version) []byte {
	w := binary.NewWriter()
	w.Latin1String(p.ElementID)
	w.Fill(0, 1)
	var flags byte
	if p.Ordered {
		flags |= ctocFlagOrdered
	}
	if p.TopLevel {
		flags |= ctocFlagTopLevel
	}
	w.U8(flags)
	w.U8(byte(len(p.ChildIDs)))
	for _, id := range p.ChildIDs {
		w.Latin1String(id)
		w.Fill(0, 1)
	}
	for _, sf := range p.SubFrames {
		EncodeFrame(w, sf.ID, version, sf.Flags, sf.Data)
	}
	return w.Bytes()
}
