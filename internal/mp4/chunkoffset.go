package mp4

// applyChunkOffsetDelta scans buf for "stco"/"co64" atom markers and adds
// delta to every chunk-offset entry found, clamping at zero. This is a
// byte-scanner rather than a tree-aware rewrite: it trades a small false-
// positive risk (a coincidental 4-byte match inside an unrelated atom's
// payload) for not having to re-walk and rebuild every copied atom.
// delta is the number of bytes the mdat payload moved by (new moov size
// minus old moov size); applying it with delta == 0 is a no-op.
func applyChunkOffsetDelta(buf []byte, delta int64) {
	if delta == 0 {
		return
	}
	i := 0
	for i+4 <= len(buf) {
		if buf[i] == 's' && buf[i+1] == 't' && buf[i+2] == 'c' && buf[i+3] == 'o' {
			patchStco(buf, i, delta)
		} else if buf[i] == 'c' && buf[i+1] == 'o' && buf[i+2] == '6' && buf[i+3] == '4' {
			patchCo64(buf, i, delta)
		}
		i++
	}
}

// patchStco rewrites a 32-bit chunk-offset table. markerPos is the offset of
// the 4-byte "stco" type tag; the table's entry_count sits 4 bytes after it
// (skipping the version/flags word), and entries follow.
func patchStco(buf []byte, markerPos int, delta int64) {
	countPos := markerPos + 8
	if countPos+4 > len(buf) {
		return
	}
	count := be32u(buf[countPos : countPos+4])
	pos := countPos + 4
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(buf) {
			return
		}
		offset := int64(be32u(buf[pos : pos+4]))
		newOffset := offset + delta
		if newOffset < 0 {
			newOffset = 0
		}
		putBE32(buf[pos:pos+4], uint32(newOffset))
		pos += 4
	}
}

func patchCo64(buf []byte, markerPos int, delta int64) {
	countPos := markerPos + 8
	if countPos+4 > len(buf) {
		return
	}
	count := be32u(buf[countPos : countPos+4])
	pos := countPos + 4
	for i := uint32(0); i < count; i++ {
		if pos+8 > len(buf) {
			return
		}
		offset := be64u(buf[pos : pos+8])
		newOffset := offset + delta
		if newOffset < 0 {
			newOffset = 0
		}
		putBE64(buf[pos:pos+8], uint64(newOffset))
		pos += 8
	}
}

func putBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func putBE64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> uint(56-8*i))
	}
}
