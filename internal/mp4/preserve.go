package mp4

// recognisedIlstKeys mirrors the atom types ExtractMetadata/buildMeta
// understand natively; anything else round-trips as an opaque entry.
var recognisedIlstKeys = map[string]bool{
	"\xa9nam": true, "\xa9ART": true, "\xa9alb": true, "\xa9gen": true,
	"\xa9wrt": true, "\xa9cmt": true, "\xa9too": true, "\xa9lyr": true,
	"aART": true, "cprt": true, "\xa9day": true,
	"trkn": true, "disk": true, "tmpo": true, "covr": true,
	"----": true, // already preserved losslessly through CustomText
}

// collectPreserved reads the original moov/udta for Modify's preservation
// contract: opaque udta siblings of meta/chpl, and opaque ilst entries
// outside the recognised tag-key set (both as raw on-disk atom bytes).
func collectPreserved(doc *Document) (udtaExtras [][]byte, ilstExtras [][]byte, err error) {
	udta := doc.Moov.Find("udta")
	if udta == nil {
		return nil, nil, nil
	}

	for _, child := range udta.Children {
		if child.Type == "meta" || child.Type == "chpl" {
			continue
		}
		raw, err := rawAtomBytes(doc, child)
		if err != nil {
			return nil, nil, err
		}
		udtaExtras = append(udtaExtras, raw)
	}

	ilst := udta.FindPath("meta", "ilst")
	if ilst == nil {
		return udtaExtras, nil, nil
	}
	for _, child := range ilst.Children {
		if recognisedIlstKeys[child.Type] {
			continue
		}
		raw, err := rawAtomBytes(doc, child)
		if err != nil {
			return nil, nil, err
		}
		ilstExtras = append(ilstExtras, raw)
	}

	return udtaExtras, ilstExtras, nil
}
