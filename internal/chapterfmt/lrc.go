package chapterfmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

// lrcAdapter implements the LRC lyric-timestamp convention
// "[mm:ss.xx]Title", reused here as a lightweight chapter marker format.
type lrcAdapter struct{}

func (lrcAdapter) Export(chapters types.ChapterList) (string, error) {
	var b strings.Builder
	for _, ch := range chapters.Items() {
		totalMs := ch.Start.Millis()
		minutes := totalMs / 60000
		secs := float64(totalMs%60000) / 1000.0
		fmt.Fprintf(&b, "[%02d:%05.2f]%s\n", minutes, secs, ch.Title)
	}
	return b.String(), nil
}

var lrcLine = regexp.MustCompile(`^\[(\d+):(\d+(?:\.\d+)?)\](.*)$`)

func (lrcAdapter) Import(text string) (types.ChapterList, error) {
	var out []types.Chapter
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		m := lrcLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		secs, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		start := types.NewAudioTimestamp(float64(minutes)*60 + secs)
		out = append(out, types.Chapter{Start: start, Title: m[3]})
	}
	return types.NewChapterList(out), nil
}
