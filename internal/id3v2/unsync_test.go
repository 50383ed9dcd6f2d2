package id3v2

import "testing"

func TestUnsynchronizeInsertsStuffingByte(t *testing.T) {
	in := []byte{0x01, 0xFF, 0x00, 0x02}
	out := Unsynchronize(in)
	want := []byte{0x01, 0xFF, 0x00, 0x00, 0x02}
	if string(out) != string(want) {
		t.Fatalf("got %x, want %x", out, want)
	}
}

func TestUnsynchronizeStuffsFalseSyncPattern(t *testing.T) {
	in := []byte{0xFF, 0xE0}
	out := Unsynchronize(in)
	want := []byte{0xFF, 0x00, 0xE0}
	if string(out) != string(want) {
		t.Fatalf("got %x, want %x", out, want)
	}
}

func TestUnsynchronizeLeavesHarmlessBytesAlone(t *testing.T) {
	in := []byte{0xFF, 0x05}
	out := Unsynchronize(in)
	if string(out) != string(in) {
		t.Fatalf("got %x, want unchanged %x", out, in)
	}
}

func TestDeUnsynchronizeReversesUnsynchronize(t *testing.T) {
	cases := [][]byte{
		{0x01, 0xFF, 0x00, 0x02},
		{0xFF, 0xE0, 0xFF, 0xFF, 0x00},
		{},
		{0xAA, 0xBB, 0xCC},
	}
	for _, c := range cases {
		got := DeUnsynchronize(Unsynchronize(c))
		if string(got) != string(c) {
			t.Errorf("round trip of %x produced %x", c, got)
		}
	}
}
