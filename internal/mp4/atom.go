// Package mp4 implements the ISO BMFF atom-tree codec: parsing, ilst
// metadata and chapter extraction, the moov rebuilder, chunk-offset
// fixup, and the atomic MP4 write strategy.
package mp4

import (
	"github.com/atelier-socle/audiomark/internal/streamio"
	"github.com/atelier-socle/audiomark/internal/types"
)

// containerTypes recursively carry children rather than opaque payload.
var containerTypes = map[string]bool{
	"moov": true, "trak": true, "mdia": true, "minf": true, "stbl": true,
	"udta": true, "dinf": true, "edts": true, "gmhd": true, "ilst": true,
}

// Atom is a cached node in the atom tree: only offset/size/type is held in
// memory; payload bytes are read on demand so the audio payload is never
// materialized.
type Atom struct {
	Type     string
	Offset   int64 // absolute file offset of the size field
	Size     int64 // total atom size including header
	HeaderSize int64 // 8 or 16 (64-bit extended size)
	Children []*Atom
}

// PayloadOffset is the absolute offset of this atom's payload.
func (a *Atom) PayloadOffset() int64 { return a.Offset + a.HeaderSize }

// PayloadSize is the byte length of this atom's payload.
func (a *Atom) PayloadSize() int64 { return a.Size - a.HeaderSize }

// Find returns the first direct child with the given type.
func (a *Atom) Find(t string) *Atom {
	for _, c := range a.Children {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// FindPath walks a slash-free sequence of child types, e.g. FindPath("udta","meta","ilst").
func (a *Atom) FindPath(types ...string) *Atom {
	cur := a
	for _, t := range types {
		cur = cur.Find(t)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// isContainer reports whether children of `a`'s parent-type should be
// recursively parsed. ilst children are always containers (each wraps a
// "data" leaf or, for "----", "mean"/"name"/"data").
func isContainer(atomType string, parentType string) bool {
	if containerTypes[atomType] {
		return true
	}
	if parentType == "ilst" {
		return true
	}
	return false
}

// ParseTree parses the top-level atom sequence of a file.
func ParseTree(fr *streamio.FileReader) ([]*Atom, error) {
	return parseAtoms(fr, 0, fr.Size(), "")
}

func parseAtoms(fr *streamio.FileReader, start, end int64, parentType string) ([]*Atom, error) {
	var atoms []*Atom
	pos := start

	for pos < end {
		if pos+8 > end {
			return nil, &types.InvalidAtomError{AtomType: "", Reason: "atom header runs past enclosing region"}
		}

		header, err := fr.Read(pos, 8)
		if err != nil {
			return nil, err
		}
		size32 := be32(header[0:4])
		atomType := string(header[4:8])

		headerSize := int64(8)
		var size int64

		switch size32 {
		case 0:
			size = end - pos // extends to end of enclosing region
		case 1:
			if pos+16 > end {
				return nil, &types.InvalidAtomError{AtomType: atomType, Reason: "64-bit size runs past enclosing region"}
			}
			ext, err := fr.Read(pos+8, 8)
			if err != nil {
				return nil, err
			}
			size = be64(ext)
			headerSize = 16
		default:
			size = int64(size32)
		}

		if size < 8 || pos+size > end {
			return nil, &types.InvalidAtomError{AtomType: atomType, Reason: "declared size out of bounds"}
		}

		atom := &Atom{Type: atomType, Offset: pos, Size: size, HeaderSize: headerSize}

		childStart := pos + headerSize
		if atomType == "meta" {
			childStart += 4 // version/flags word
		}

		if isContainer(atomType, parentType) && !(atomType == "ilst" && parentType == "ilst") {
			children, err := parseAtoms(fr, childStart, pos+size, childParentType(atomType))
			if err != nil {
				return nil, err
			}
			atom.Children = children
		}

		atoms = append(atoms, atom)
		pos += size
	}

	return atoms, nil
}

// childParentType reports the "parentType" seen by this atom's children:
// ilst children are containers too (wrapping a data leaf), so propagate it.
func childParentType(t string) string {
	if t == "ilst" {
		return "ilst"
	}
	return ""
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be64(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = (v << 8) | int64(c)
	}
	return v
}

// ValidateFtyp validates the top-level ftyp atom against the recognised
// brand set.
func ValidateFtyp(fr *streamio.FileReader, ftyp *Atom) error {
	payload, err := fr.Read(ftyp.PayloadOffset(), ftyp.PayloadSize())
	if err != nil {
		return err
	}
	if len(payload) < 8 {
		return &types.InvalidAtomError{AtomType: "ftyp", Reason: "too small"}
	}

	major := string(payload[0:4])
	if isSupportedBrand(major) {
		return nil
	}
	for i := 8; i+4 <= len(payload); i += 4 {
		if isSupportedBrand(string(payload[i : i+4])) {
			return nil
		}
	}
	return &types.UnsupportedFileTypeError{Brand: major}
}

var supportedBrands = map[string]bool{
	"M4A ": true, "M4B ": true, "mp41": true, "mp42": true,
	"isom": true, "iso2": true, "aax ": true,
}

func isSupportedBrand(b string) bool { return supportedBrands[b] }
