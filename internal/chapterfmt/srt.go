package chapterfmt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

// srtAdapter implements SubRip: a numbered index, a
// "HH:MM:SS,mmm --> HH:MM:SS,mmm" timing line, then the title line(s).
type srtAdapter struct{}

func (srtAdapter) Export(chapters types.ChapterList) (string, error) {
	var b strings.Builder
	items := chapters.DeriveEndTimes(nil).Items()
	for i, ch := range items {
		end := *ch.End
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, srtTime(ch.Start), srtTime(end), ch.Title)
	}
	return b.String(), nil
}

func srtTime(t types.AudioTimestamp) string {
	totalMs := t.Millis()
	hours := totalMs / 3600000
	minutes := (totalMs % 3600000) / 60000
	secs := (totalMs % 60000) / 1000
	millis := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

var srtCue = regexp.MustCompile(`^([0-9:,]+)\s*-->\s*([0-9:,]+)`)

func (srtAdapter) Import(text string) (types.ChapterList, error) {
	var out []types.Chapter
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		m := srtCue.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, err := types.ParseAudioTimestamp(strings.Replace(m[1], ",", ".", 1))
		if err != nil {
			continue
		}
		var titleLines []string
		for j := i + 1; j < len(lines); j++ {
			l := strings.TrimRight(lines[j], "\r")
			if strings.TrimSpace(l) == "" {
				break
			}
			titleLines = append(titleLines, l)
		}
		out = append(out, types.Chapter{Start: start, Title: strings.Join(titleLines, " ")})
	}
	return types.NewChapterList(out), nil
}
