package chapterfmt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

// markdownAdapter implements the common podcast show-notes chapter list:
// "- HH:MM:SS Title" or "- [HH:MM:SS](url) Title".
type markdownAdapter struct{}

func (markdownAdapter) Export(chapters types.ChapterList) (string, error) {
	var b strings.Builder
	for _, ch := range chapters.Items() {
		if ch.URL != "" {
			fmt.Fprintf(&b, "- [%s](%s) %s\n", ch.Start.String(), ch.URL, ch.Title)
		} else {
			fmt.Fprintf(&b, "- %s %s\n", ch.Start.String(), ch.Title)
		}
	}
	return b.String(), nil
}

var markdownLinked = regexp.MustCompile(`^-\s*\[([0-9:.]+)\]\(([^)]*)\)\s*(.*)$`)
var markdownPlain = regexp.MustCompile(`^-\s*([0-9:.]+)\s+(.*)$`)

func (markdownAdapter) Import(text string) (types.ChapterList, error) {
	var out []types.Chapter
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := markdownLinked.FindStringSubmatch(line); m != nil {
			start, err := types.ParseAudioTimestamp(m[1])
			if err != nil {
				continue
			}
			out = append(out, types.Chapter{Start: start, URL: m[2], Title: m[3]})
			continue
		}
		if m := markdownPlain.FindStringSubmatch(line); m != nil {
			start, err := types.ParseAudioTimestamp(m[1])
			if err != nil {
				continue
			}
			out = append(out, types.Chapter{Start: start, Title: m[2]})
		}
	}
	return types.NewChapterList(out), nil
}
