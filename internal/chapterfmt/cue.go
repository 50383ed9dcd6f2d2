package chapterfmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

// cueAdapter implements a single-file CUE sheet: one TRACK per chapter with
// an INDEX 01 position in "MM:SS:FF" frames (75 frames/second, the CD-DA
// convention).
type cueAdapter struct{}

const cueFramesPerSecond = 75

func (cueAdapter) Export(chapters types.ChapterList) (string, error) {
	var b strings.Builder
	b.WriteString("FILE \"audio\" WAVE\n")
	for i, ch := range chapters.Items() {
		fmt.Fprintf(&b, "  TRACK%02d AUDIO\n", i+1)
		fmt.Fprintf(&b, "    TITLE \"%s\"\n", ch.Title)
		fmt.Fprintf(&b, "    INDEX 01 %s\n", cueTime(ch.Start))
	}
	return b.String(), nil
}

func cueTime(t types.AudioTimestamp) string {
	totalMs := t.Millis()
	minutes := totalMs / 60000
	secs := (totalMs % 60000) / 1000
	frames := (totalMs % 1000) * cueFramesPerSecond / 1000
	return fmt.Sprintf("%02d:%02d:%02d", minutes, secs, frames)
}

var cueTrack = regexp.MustCompile(`^\s*TRACK\d+\s+AUDIO`)
var cueTitle = regexp.MustCompile(`^\s*TITLE\s+"(.*)"`)
var cueIndex = regexp.MustCompile(`^\s*INDEX\s+01\s+(\d+):(\d+):(\d+)`)

func (cueAdapter) Import(text string) (types.ChapterList, error) {
	var out []types.Chapter
	var title string
	var haveTrack bool

	flush := func(start types.AudioTimestamp) {
		if haveTrack {
			out = append(out, types.Chapter{Start: start, Title: title})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case cueTrack.MatchString(line):
			haveTrack = true
			title = ""
		case cueTitle.MatchString(line):
			m := cueTitle.FindStringSubmatch(line)
			title = m[1]
		case cueIndex.MatchString(line):
			m := cueIndex.FindStringSubmatch(line)
			minutes, _ := strconv.Atoi(m[1])
			secs, _ := strconv.Atoi(m[2])
			frames, _ := strconv.Atoi(m[3])
			seconds := float64(minutes)*60 + float64(secs) + float64(frames)/cueFramesPerSecond
			flush(types.NewAudioTimestamp(seconds))
			haveTrack = false
		}
	}

	return types.NewChapterList(out), nil
}
