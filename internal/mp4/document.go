package mp4

import (
	"github.com/atelier-socle/audiomark/internal/streamio"
	"github.com/atelier-socle/audiomark/internal/types"
)

// Document is a parsed top-level atom tree plus the open file handle
// backing on-demand payload reads.
type Document struct {
	Reader *streamio.FileReader
	Atoms  []*Atom
	Ftyp   *Atom
	Moov   *Atom
	Mdat   *Atom
}

// OpenDocument opens path and parses its top-level atom tree, validating
// the presence of ftyp and moov and the ftyp brand.
func OpenDocument(path string) (*Document, error) {
	fr, err := streamio.OpenFileReader(path)
	if err != nil {
		return nil, err
	}

	if fr.Size() < 8 {
		fr.Close()
		return nil, &types.InvalidFileError{Reason: "file shorter than 8 bytes"}
	}

	atoms, err := ParseTree(fr)
	if err != nil {
		fr.Close()
		return nil, err
	}

	doc := &Document{Reader: fr, Atoms: atoms}
	for _, a := range atoms {
		switch a.Type {
		case "ftyp":
			if doc.Ftyp == nil {
				doc.Ftyp = a
			}
		case "moov":
			if doc.Moov == nil {
				doc.Moov = a
			}
		case "mdat":
			if doc.Mdat == nil {
				doc.Mdat = a
			}
		}
	}

	if doc.Ftyp == nil {
		fr.Close()
		return nil, &types.InvalidFileError{Reason: "missing ftyp atom"}
	}
	if err := ValidateFtyp(fr, doc.Ftyp); err != nil {
		fr.Close()
		return nil, err
	}
	if doc.Moov == nil {
		fr.Close()
		return nil, &types.InvalidFileError{Reason: "missing moov atom"}
	}

	return doc, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error { return d.Reader.Close() }

// Payload reads an atom's payload bytes on demand.
func (d *Document) Payload(a *Atom) ([]byte, error) {
	return d.Reader.Read(a.PayloadOffset(), a.PayloadSize())
}

// AudioTrack returns the first child trak whose mdia/hdlr handler-type is
// "soun".
func (d *Document) AudioTrack() (*Atom, error) {
	for _, trak := range d.Moov.Children {
		if trak.Type != "trak" {
			continue
		}
		handler, err := d.handlerType(trak)
		if err != nil {
			continue
		}
		if handler == "soun" {
			return trak, nil
		}
	}
	return nil, &types.AtomNotFoundError{AtomType: "trak[soun]"}
}

func (d *Document) handlerType(trak *Atom) (string, error) {
	hdlr := trak.FindPath("mdia", "hdlr")
	if hdlr == nil {
		return "", &types.AtomNotFoundError{AtomType: "hdlr"}
	}
	payload, err := d.Payload(hdlr)
	if err != nil {
		return "", err
	}
	if len(payload) < 12 {
		return "", &types.InvalidAtomError{AtomType: "hdlr", Reason: "too small"}
	}
	return string(payload[8:12]), nil
}
