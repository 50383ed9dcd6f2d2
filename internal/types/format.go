package types

// Format identifies which container engine handles a file.
type Format int

const (
	FormatUnknown Format = iota // unknown
	FormatMP3                   // mp3
	FormatM4A                   // m4a
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "mp3"
	case FormatM4A:
		return "m4a"
	default:
		return "unknown"
	}
}

// Extensions returns the file extensions associated with a format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatM4A:
		return []string{".m4a", ".m4b", ".aax"}
	default:
		return nil
	}
}
