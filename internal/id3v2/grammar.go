package id3v2

import (
	"github.com/atelier-socle/audiomark/internal/binary"
	"github.com/atelier-socle/audiomark/internal/types"
)

// textPayload is the shape of a T*** text frame: one encoding byte then
// encoded text, trailing null trimmed.
type textPayload struct {
	Encoding binary.TextEncoding
	Text     string
}

func decodeTextPayload(b []byte) (textPayload, error) {
	if len(b) < 1 {
		return textPayload{}, &types.TruncatedDataError{Expected: 1, Available: int64(len(b))}
	}
	enc := binary.TextEncoding(b[0])
	text, err := decodeTerminatedOrFull(enc, b[1:])
	if err != nil {
		return textPayload{}, err
	}
	return textPayload{Encoding: enc, Text: text}, nil
}

// decodeTerminatedOrFull decodes the remainder of a payload as text,
// trimming a single trailing encoding-width null terminator if present.
func decodeTerminatedOrFull(enc binary.TextEncoding, b []byte) (string, error) {
	width := enc.NullWidth()
	if len(b) >= width {
		allZero := true
		for _, c := range b[len(b)-width:] {
			if c != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			b = b[:len(b)-width]
		}
	}
	return binary.DecodeText(enc, b)
}

func encodeTextPayload(p textPayload) ([]byte, error) {
	w := binary.NewWriter()
	w.U8(byte(p.Encoding))
	enc, err := binary.EncodeText(p.Encoding, p.Text)
	if err != nil {
		return nil, err
	}
	w.Append(enc)
	return w.Bytes(), nil
}

// txxxPayload is TXXX/WXXX-shaped: encoding, null-terminated description,
// then a value (text for TXXX, Latin-1 URL for WXXX).
type txxxPayload struct {
	Encoding    binary.TextEncoding
	Description string
	Value       string
}

func decodeTXXX(b []byte) (txxxPayload, error) {
	if len(b) < 1 {
		return txxxPayload{}, &types.TruncatedDataError{Expected: 1, Available: 0}
	}
	r := binary.NewReader(b[1:])
	enc := binary.TextEncoding(b[0])
	desc, value, err := readDescThenRest(r, enc)
	if err != nil {
		return txxxPayload{}, err
	}
	text, err := decodeTerminatedOrFull(enc, value)
	if err != nil {
		return txxxPayload{}, err
	}
	return txxxPayload{Encoding: enc, Description: desc, Value: text}, nil
}

func readDescThenRest(r *binary.Reader, enc binary.TextEncoding) (string, []byte, error) {
	var desc string
	var err error
	if enc.NullWidth() == 2 {
		raw, e := r.NullTerminatedUTF16()
		err = e
		if err == nil {
			desc, err = binary.DecodeText(enc, raw)
		}
	} else {
		desc, err = r.NullTerminatedLatin1()
	}
	if err != nil {
		return "", nil, err
	}
	rest, err := r.Bytes(r.Remaining())
	if err != nil {
		return "", nil, err
	}
	return desc, rest, nil
}

func encodeTXXX(p txxxPayload) ([]byte, error) {
	w := binary.NewWriter()
	w.U8(byte(p.Encoding))
	if err := w.NullTerminated(p.Encoding, p.Description); err != nil {
		return nil, err
	}
	val, err := binary.EncodeText(p.Encoding, p.Value)
	if err != nil {
		return nil, err
	}
	w.Append(val)
	return w.Bytes(), nil
}

// decodeURLFrame decodes a W*** Latin-1 URL frame, trailing nulls trimmed.
func decodeURLFrame(b []byte) string {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return binary.DecodeLatin1(b)
}

// wxxxPayload: encoding, description (encoding-terminated), Latin-1 URL.
type wxxxPayload struct {
	Encoding    binary.TextEncoding
	Description string
	URL         string
}

func decodeWXXX(b []byte) (wxxxPayload, error) {
	if len(b) < 1 {
		return wxxxPayload{}, &types.TruncatedDataError{Expected: 1, Available: 0}
	}
	enc := binary.TextEncoding(b[0])
	r := binary.NewReader(b[1:])
	desc, rest, err := readDescThenRest(r, enc)
	if err != nil {
		return wxxxPayload{}, err
	}
	return wxxxPayload{Encoding: enc, Description: desc, URL: decodeURLFrame(rest)}, nil
}

func encodeWXXX(p wxxxPayload) ([]byte, error) {
	w := binary.NewWriter()
	w.U8(byte(p.Encoding))
	if err := w.NullTerminated(p.Encoding, p.Description); err != nil {
		return nil, err
	}
	w.Latin1String(p.URL)
	return w.Bytes(), nil
}

// commPayload covers both COMM and USLT: encoding, 3-byte language,
// encoding-terminated description, then text.
type commPayload struct {
	Encoding    binary.TextEncoding
	Language    string
	Description string
	Text        string
}

func decodeCommentLike(b []byte) (commPayload, error) {
	if len(b) < 4 {
		return commPayload{}, &types.TruncatedDataError{Expected: 4, Available: int64(len(b))}
	}
	enc := binary.TextEncoding(b[0])
	lang := binary.DecodeLatin1(b[1:4])
	r := binary.NewReader(b[4:])
	desc, rest, err := readDescThenRest(r, enc)
	if err != nil {
		return commPayload{}, err
	}
	text, err := decodeTerminatedOrFull(enc, rest)
	if err != nil {
		return commPayload{}, err
	}
	return commPayload{Encoding: enc, Language: lang, Description: desc, Text: text}, nil
}

func encodeCommentLike(p commPayload) ([]byte, error) {
	w := binary.NewWriter()
	w.U8(byte(p.Encoding))
	w.Latin1String(padLanguage(p.Language))
	if err := w.NullTerminated(p.Encoding, p.Description); err != nil {
		return nil, err
	}
	text, err := binary.EncodeText(p.Encoding, p.Text)
	if err != nil {
		return nil, err
	}
	w.Append(text)
	return w.Bytes(), nil
}

func padLanguage(lang string) string {
	for len(lang) < 3 {
		lang += " "
	}
	if len(lang) > 3 {
		lang = lang[:3]
	}
	return lang
}

// syltEvent is one (text, timestamp-ms) pair inside a SYLT frame.
type syltEvent struct {
	Text string
	Ms   uint32
}

type syltPayload struct {
	Encoding    binary.TextEncoding
	Language    string
	ContentType types.LyricsContentType
	Descriptor  string
	Events      []syltEvent
}

func decodeSYLT(b []byte) (syltPayload, error) {
	if len(b) < 6 {
		return syltPayload{}, &types.TruncatedDataError{Expected: 6, Available: int64(len(b))}
	}
	enc := binary.TextEncoding(b[0])
	lang := binary.DecodeLatin1(b[1:4])
	// b[4] is the timestamp format byte (milliseconds = 0x02); only ms is supported.
	contentType := types.LyricsContentType(b[5])

	r := binary.NewReader(b[6:])
	desc, err := readDescOnly(r, enc)
	if err != nil {
		return syltPayload{}, err
	}

	var events []syltEvent
	for r.Remaining() > 0 {
		text, err := readEncodedTerminated(r, enc)
		if err != nil {
			break
		}
		ms, err := r.U32()
		if err != nil {
			break
		}
		events = append(events, syltEvent{Text: text, Ms: ms})
	}

	return syltPayload{Encoding: enc, Language: lang, ContentType: contentType, Descriptor: desc, Events: events}, nil
}

func readDescOnly(r *binary.Reader, enc binary.TextEncoding) (string, error) {
	if enc.NullWidth() == 2 {
		raw, err := r.NullTerminatedUTF16()
		if err != nil {
			return "", err
		}
		return binary.DecodeText(enc, raw)
	}
	return r.NullTerminatedLatin1()
}

func readEncodedTerminated(r *binary.Reader, enc binary.TextEncoding) (string, error) {
	if enc.NullWidth() == 2 {
		raw, err := r.NullTerminatedUTF16()
		if err != nil {
			return "", err
		}
		return binary.DecodeText(enc, raw)
	}
	return r.NullTerminatedLatin1()
}

func encodeSYLT(p syltPayload) ([]byte, error) {
	w := binary.NewWriter()
	w.U8(byte(p.Encoding))
	w.Latin1String(padLanguage(p.Language))
	w.U8(0x02) // milliseconds
	w.U8(byte(p.ContentType))
	if err := w.NullTerminated(p.Encoding, p.Descriptor); err != nil {
		return nil, err
	}
	for _, e := range p.Events {
		if err := w.NullTerminated(p.Encoding, e.Text); err != nil {
			return nil, err
		}
		w.U32(e.Ms)
	}
	return w.Bytes(), nil
}

// apicPayload is the embedded-picture frame shape.
type apicPayload struct {
	Encoding    binary.TextEncoding
	MIME        string
	PictureType byte
	Description string
	Data        []byte
}

const pictureTypeCoverFront = 0x03

func decodeAPIC(b []byte) (apicPayload, error) {
	if len(b) < 1 {
		return apicPayload{}, &types.TruncatedDataError{Expected: 1, Available: 0}
	}
	enc := binary.TextEncoding(b[0])
	r := binary.NewReader(b[1:])
	mime, err := r.NullTerminatedLatin1()
	if err != nil {
		return apicPayload{}, err
	}
	ptype, err := r.U8()
	if err != nil {
		return apicPayload{}, err
	}
	desc, err := readDescOnly(r, enc)
	if err != nil {
		return apicPayload{}, err
	}
	data, err := r.Bytes(r.Remaining())
	if err != nil {
		return apicPayload{}, err
	}
	return apicPayload{Encoding: enc, MIME: mime, PictureType: ptype, Description: desc, Data: data}, nil
}

func encodeAPIC(p apicPayload) ([]byte, error) {
	w := binary.NewWriter()
	w.U8(byte(p.Encoding))
	w.Latin1String(p.MIME)
	w.Fill(0, 1)
	w.U8(p.PictureType)
	if err := w.NullTerminated(p.Encoding, p.Description); err != nil {
		return nil, err
	}
	w.Append(p.Data)
	return w.Bytes(), nil
}

// ownerBlobPayload (PRIV and UFID): Latin-1 owner terminated by null, opaque rest.
type ownerBlobPayload struct {
	Owner string
	Data  []byte
}

func decodeOwnerBlob(b []byte) (ownerBlobPayload, error) {
	r := binary.NewReader(b)
	owner, err := r.NullTerminatedLatin1()
	if err != nil {
		return ownerBlobPayload{}, err
	}
	data, err := r.Bytes(r.Remaining())
	if err != nil {
		return ownerBlobPayload{}, err
	}
	return ownerBlobPayload{Owner: owner, Data: data}, nil
}

func encodeOwnerBlob(p ownerBlobPayload) []byte {
	w := binary.NewWriter()
	w.Latin1String(p.Owner)
	w.Fill(0, 1)
	w.Append(p.Data)
	return w.Bytes()
}

// decodePCNT reads a big-endian counter of at least 4 bytes.
func decodePCNT(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = (v << 8) | uint64(c)
	}
	return v
}

func encodePCNT(count uint64) []byte {
	w := binary.NewWriter()
	w.U32(uint32(count))
	return w.Bytes()
}

// popmPayload: Latin-1 email terminated by null, rating byte, play counter.
type popmPayload struct {
	Email  string
	Rating byte
	Count  uint64
}

func decodePOPM(b []byte) (popmPayload, error) {
	r := binary.NewReader(b)
	email, err := r.NullTerminatedLatin1()
	if err != nil {
		return popmPayload{}, err
	}
	rating, err := r.U8()
	if err != nil {
		return popmPayload{}, err
	}
	rest, _ := r.Bytes(r.Remaining())
	return popmPayload{Email: email, Rating: rating, Count: decodePCNT(rest)}, nil
}

func encodePOPM(p popmPayload) []byte {
	w := binary.NewWriter()
	w.Latin1String(p.Email)
	w.Fill(0, 1)
	w.U8(p.Rating)
	if p.Count > 0 {
		w.U32(uint32(p.Count))
	}
	return w.Bytes()
}
