package chapterfmt

import (
	"fmt"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

// mp4ChapsAdapter implements the mp4chaps(1) "CHAPTERNN=" / "CHAPTERNNNAME="
// pair-line format.
type mp4ChapsAdapter struct{}

func (mp4ChapsAdapter) Export(chapters types.ChapterList) (string, error) {
	var b strings.Builder
	for i, ch := range chapters.Items() {
		fmt.Fprintf(&b, "CHAPTER%02d=%s\n", i, ch.Start.String())
		fmt.Fprintf(&b, "CHAPTER%02dNAME=%s\n", i, ch.Title)
	}
	return b.String(), nil
}

func (mp4ChapsAdapter) Import(text string) (types.ChapterList, error) {
	starts := map[int]string{}
	names := map[int]string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key, value := line[:eq], line[eq+1:]
		if !strings.HasPrefix(key, "CHAPTER") {
			continue
		}
		rest := key[len("CHAPTER"):]
		if strings.HasSuffix(rest, "NAME") {
			idx, err := parseIndex(rest[:len(rest)-len("NAME")])
			if err == nil {
				names[idx] = value
			}
			continue
		}
		idx, err := parseIndex(rest)
		if err == nil {
			starts[idx] = value
		}
	}

	var out []types.Chapter
	for i := 0; i < len(starts); i++ {
		startStr, ok := starts[i]
		if !ok {
			break
		}
		start, err := types.ParseAudioTimestamp(startStr)
		if err != nil {
			return types.ChapterList{}, err
		}
		out = append(out, types.Chapter{Start: start, Title: names[i]})
	}
	return types.NewChapterList(out), nil
}

func parseIndex(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty chapter index")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric chapter index %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
