package mp4

import "testing"

func TestApplyChunkOffsetDeltaPatchesStco(t *testing.T) {
	buf := buildStcoBuf([]uint32{100, 200, 300})
	applyChunkOffsetDelta(buf, 50)

	got := readStcoOffsets(buf)
	want := []uint32{150, 250, 350}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestApplyChunkOffsetDeltaClampsAtZero(t *testing.T) {
	buf := buildStcoBuf([]uint32{10, 20})
	applyChunkOffsetDelta(buf, -100)

	got := readStcoOffsets(buf)
	for i, o := range got {
		if o != 0 {
			t.Errorf("offset %d = %d, want clamped to 0", i, o)
		}
	}
}

func TestApplyChunkOffsetDeltaPatchesCo64(t *testing.T) {
	buf := buildCo64Buf([]uint64{1_000_000, 2_000_000})
	applyChunkOffsetDelta(buf, 1000)

	got := readCo64Offsets(buf)
	want := []uint64{1_001_000, 2_001_000}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestApplyChunkOffsetDeltaNoopWhenZero(t *testing.T) {
	buf := buildStcoBuf([]uint32{42})
	original := append([]byte(nil), buf...)
	applyChunkOffsetDelta(buf, 0)
	for i := range buf {
		if buf[i] != original[i] {
			t.Fatalf("buffer mutated despite zero delta")
		}
	}
}

func readStcoOffsets(buf []byte) []uint32 {
	count := be32u(buf[12:16])
	out := make([]uint32, count)
	pos := 16
	for i := range out {
		out[i] = be32u(buf[pos : pos+4])
		pos += 4
	}
	return out
}

func readCo64Offsets(buf []byte) []uint64 {
	count := be32u(buf[12:16])
	out := make([]uint64, count)
	pos := 16
	for i := range out {
		out[i] = uint64(be64u(buf[pos : pos+8]))
		pos += 8
	}
	return out
}

func buildStcoBuf(offsets []uint32) []byte {
	buf := make([]byte, 8+4+4+4*len(offsets))
	putBE32(buf[0:4], uint32(len(buf)))
	copy(buf[4:8], "stco")
	// version/flags word left zero
	putBE32(buf[12:16], uint32(len(offsets)))
	pos := 16
	for _, o := range offsets {
		putBE32(buf[pos:pos+4], o)
		pos += 4
	}
	return buf
}

func buildCo64Buf(offsets []uint64) []byte {
	buf := make([]byte, 8+4+4+8*len(offsets))
	putBE32(buf[0:4], uint32(len(buf)))
	copy(buf[4:8], "co64")
	putBE32(buf[12:16], uint32(len(offsets)))
	pos := 16
	for _, o := range offsets {
		putBE64(buf[pos:pos+8], o)
		pos += 8
	}
	return buf
}
