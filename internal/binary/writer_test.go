package binary

import "testing"

func TestWriterU8U16U32U64(t *testing.T) {
	w := NewWriter()
	w.U8(0x01)
	w.U16(0x0203)
	w.U32(0x04050607)
	w.U64(0x0001020304050607)

	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	got := w.Bytes()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestWriterFill(t *testing.T) {
	w := NewWriter()
	w.Fill(0xAA, 3)
	got := w.Bytes()
	if len(got) != 3 || got[0] != 0xAA || got[1] != 0xAA || got[2] != 0xAA {
		t.Fatalf("got %v, want three 0xAA bytes", got)
	}
}

func TestWriterNullTerminatedLatin1(t *testing.T) {
	w := NewWriter()
	if err := w.NullTerminated(EncodingLatin1, "hi"); err != nil {
		t.Fatalf("NullTerminated: %v", err)
	}
	got := w.Bytes()
	want := []byte{'h', 'i', 0x00}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestWriterNullTerminatedUTF16BOMUsesTwoByteTerminator(t *testing.T) {
	w := NewWriter()
	if err := w.NullTerminated(EncodingUTF16BOM, "hi"); err != nil {
		t.Fatalf("NullTerminated: %v", err)
	}
	got := w.Bytes()
	if len(got) < 2 || got[len(got)-1] != 0x00 || got[len(got)-2] != 0x00 {
		t.Fatalf("expected a two-byte null terminator, got %v", got)
	}
}

func TestEncodeSyncsafeClearsHighBits(t *testing.T) {
	b := EncodeSyncsafe(0x0FFFFFFF)
	for i, c := range b {
		if c&0x80 != 0 {
			t.Fatalf("byte %d = %#x has its high bit set", i, c)
		}
	}
}

func TestWriterReaderByteLevelRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U32(42)
	w.Append([]byte("hello"))

	r := NewReader(w.Bytes())
	v, err := r.U32()
	if err != nil || v != 42 {
		t.Fatalf("U32 = %d, %v, want 42, nil", v, err)
	}
	s, err := r.UTF8String(5)
	if err != nil || s != "hello" {
		t.Fatalf("UTF8String = %q, %v, want hello, nil", s, err)
	}
}
