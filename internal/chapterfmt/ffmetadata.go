package chapterfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

// ffmetadataAdapter implements ffmpeg's ";FFMETADATA1" chapter blocks, with
// a fixed millisecond TIMEBASE.
type ffmetadataAdapter struct{}

func (ffmetadataAdapter) Export(chapters types.ChapterList) (string, error) {
	var b strings.Builder
	b.WriteString(";FFMETADATA1\n")
	items := chapters.DeriveEndTimes(nil).Items()
	for _, ch := range items {
		b.WriteString("[CHAPTER]\n")
		b.WriteString("TIMEBASE=1/1000\n")
		fmt.Fprintf(&b, "START=%d\n", ch.Start.Millis())
		end := ch.Start.Millis() + 1
		if ch.End != nil {
			end = ch.End.Millis()
		}
		fmt.Fprintf(&b, "END=%d\n", end)
		fmt.Fprintf(&b, "title=%s\n", ch.Title)
	}
	return b.String(), nil
}

func (ffmetadataAdapter) Import(text string) (types.ChapterList, error) {
	var out []types.Chapter
	var inChapter bool
	var startMs int64
	var title string

	flush := func() {
		if inChapter {
			out = append(out, types.Chapter{Start: types.AudioTimestampFromMillis(startMs), Title: title})
		}
		inChapter, startMs, title = false, 0, ""
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "[CHAPTER]":
			flush()
			inChapter = true
		case strings.HasPrefix(line, "START="):
			v, err := strconv.ParseInt(strings.TrimPrefix(line, "START="), 10, 64)
			if err == nil {
				startMs = v
			}
		case strings.HasPrefix(line, "title="):
			title = strings.TrimPrefix(line, "title=")
		}
	}
	flush()

	return types.NewChapterList(out), nil
}
