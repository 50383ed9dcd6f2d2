package id3v2

import "testing"

func TestCHAPRoundTrip(t *testing.T) {
	original := chapPayload{
		ElementID: "chp1",
		StartMs:   1000,
		EndMs:     5000,
	}

	encoded := encodeCHAP(original, Version4)
	decoded, err := decodeCHAP(encoded, Version4)
	if err != nil {
		t.Fatalf("decodeCHAP: %v", err)
	}

	if decoded.ElementID != original.ElementID {
		t.Errorf("ElementID = %q, want %q", decoded.ElementID, original.ElementID)
	}
	if decoded.StartMs != original.StartMs {
		t.Errorf("StartMs = %d, want %d", decoded.StartMs, original.StartMs)
	}
	if decoded.EndMs != original.EndMs {
		t.Errorf("EndMs = %d, want %d", decoded.EndMs, original.EndMs)
	}
}

func TestCHAPRoundTripWithSubFrames(t *testing.T) {
	original := chapPayload{
		ElementID: "chp1",
		StartMs:   0,
		EndMs:     60000,
		SubFrames: []RawFrame{
			{ID: "TIT2", Data: []byte{0x03, 'C', 'h', 'a', 'p', 't', 'e', 'r', ' ', '1'}},
		},
	}

	encoded := encodeCHAP(original, Version4)
	decoded, err := decodeCHAP(encoded, Version4)
	if err != nil {
		t.Fatalf("decodeCHAP: %v", err)
	}
	if len(decoded.SubFrames) != 1 {
		t.Fatalf("expected 1 subframe, got %d", len(decoded.SubFrames))
	}
	if decoded.SubFrames[0].ID != "TIT2" {
		t.Errorf("subframe ID = %q, want TIT2", decoded.SubFrames[0].ID)
	}
}

func TestCTOCRoundTrip(t *testing.T) {
	original := ctocPayload{
		ElementID: "toc",
		Ordered:   true,
		TopLevel:  true,
		ChildIDs:  []string{"chp1", "chp2", "chp3"},
	}

	encoded := encodeCTOC(original, Version4)
	decoded, err := decodeCTOC(encoded, Version4)
	if err != nil {
		t.Fatalf("decodeCTOC: %v", err)
	}

	if decoded.ElementID != original.ElementID {
		t.Errorf("ElementID = %q, want %q", decoded.ElementID, original.ElementID)
	}
	if !decoded.Ordered {
		t.Error("expected Ordered flag to round-trip true")
	}
	if !decoded.TopLevel {
		t.Error("expected TopLevel flag to round-trip true")
	}
	if len(decoded.ChildIDs) != 3 {
		t.Fatalf("expected 3 child ids, got %d", len(decoded.ChildIDs))
	}
	for i, want := range []string{"chp1", "chp2", "chp3"} {
		if decoded.ChildIDs[i] != want {
			t.Errorf("child %d = %q, want %q", i, decoded.ChildIDs[i], want)
		}
	}
}

func TestCTOCFlagsUnsetWhenFalse(t *testing.T) {
	original := ctocPayload{ElementID: "toc", Ordered: false, TopLevel: false}
	encoded := encodeCTOC(original, Version4)
	decoded, err := decodeCTOC(encoded, Version4)
	if err != nil {
		t.Fatalf("decodeCTOC: %v", err)
	}
	if decoded.Ordered || decoded.TopLevel {
		t.Error("expected both flags to round-trip false")
	}
}
