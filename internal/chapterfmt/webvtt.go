package chapterfmt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

// webvttAdapter implements WebVTT chapter cues: "HH:MM:SS.mmm --> HH:MM:SS.mmm"
// followed by the chapter title line.
type webvttAdapter struct{}

func (webvttAdapter) Export(chapters types.ChapterList) (string, error) {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	items := chapters.DeriveEndTimes(nil).Items()
	for i, ch := range items {
		end := *ch.End
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, vttTime(ch.Start), vttTime(end), ch.Title)
	}
	return b.String(), nil
}

func vttTime(t types.AudioTimestamp) string {
	totalMs := t.Millis()
	hours := totalMs / 3600000
	minutes := (totalMs % 3600000) / 60000
	secs := (totalMs % 60000) / 1000
	millis := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

var vttCue = regexp.MustCompile(`^([0-9:.]+)\s*-->\s*([0-9:.]+)`)

func (webvttAdapter) Import(text string) (types.ChapterList, error) {
	var out []types.Chapter
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		m := vttCue.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, err := types.ParseAudioTimestamp(m[1])
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
