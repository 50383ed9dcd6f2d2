package id3v2

import (
	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

// RawFrame is an unparsed ID3v2 frame: a 4-character identifier plus its
// (already de-unsynchronized, if applicable) payload.
type RawFrame struct {
	ID    string
	Flags uint16
	Data  []byte
}

const frameFlagUnsynchronized = 0x0002

// ParseFrames walks buf (the tag payload, after the 10-byte header) and
// returns every frame until padding (a leading null byte) or the buffer is
// exhausted. An invalid identifier terminates the scan without error.
func ParseFrames(buf []byte, version Version) ([]RawFrame, error) {
	r := binary.NewReader(buf)
	var frames []RawFrame

	for r.Remaining() >= 10 {
		idBytes, err := r.PeekBytes(4)
		if err != nil {
			break
		}
		if idBytes[0] == 0 {
			break // padding
		}
		if !isValidFrameID(idBytes) {
			break
		}
		_, _ = r.Bytes(4)

		var size uint32
		if version == Version4 {
			size, err = r.Syncsafe32()
		} else {
			size, err = r.U32()
		}
		if err != nil {
			return frames, err
		}

		flags, err := r.U16()
		if err != nil {
			return frames, err
		}

		if int64(size) > r.Remaining() {
			return frames, &types.TruncatedDataError{Expected: int64(size), Available: r.Remaining()}
		}

		payload, err := r.Bytes(int64(size))
		if err != nil {
			return frames, err
		}

		if version == Version4 && flags&frameFlagUnsynchronized != 0 {
			payload = DeUnsynchronize(payload)
		}

		frames = append(frames, RawFrame{ID: string(idBytes), Flags: flags, Data: payload})
	}

	return frames, nil
}

func isValidFrameID(b []byte) bool {
	for _, c := range b {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// EncodeFrame lays out a single frame: 4-char id, size (regular on v2.3,
// syncsafe on v2.4), 2-byte flags, payload.
func EncodeFrame(w *binary.Writer, id string, version Version, flags uint16, payload []byte) {
	w.Append([]byte(id))
	if version == Version4 {
		w.Syncsafe32(uint32(len(payload)))
	} else {
		w.U32(uint32(len(payload)))
	}
	w.U16(flags)
	w.Append(payload)
}
