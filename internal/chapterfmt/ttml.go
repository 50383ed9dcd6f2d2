package chapterfmt

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/atelier-socle/audiomark/internal/types"
)

type ttmlP struct {
	Begin string `xml:"begin,attr"`
	Text  string `xml:",chardata"`
}

type ttmlBody struct {
	Ps []ttmlP `xml:"div>p"`
}

type ttmlDoc struct {
	XMLName xml.Name `xml:"tt"`
	XMLNS   string   `xml:"xmlns,attr"`
	Body    ttmlBody `xml:"body"`
}

// ttmlAdapter implements a minimal TTML document: one <p> per chapter,
// timed with `begin`, no `end` (end times are not part of the contract).
type ttmlAdapter struct{}

func (ttmlAdapter) Export(chapters types.ChapterList) (string, error) {
	doc := ttmlDoc{XMLNS: "http://www.w3.org/ns/ttml"}
	for _, ch := range chapters.Items() {
		doc.Body.Ps = append(doc.Body.Ps, ttmlP{Begin: formatTTMLTime(ch.Start), Text: ch.Title})
	}
	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", &types.InvalidExportDataError{Reason: err.Error()}
	}
	return xml.Header + string(b), nil
}

func (ttmlAdapter) Import(text string) (types.ChapterList, error) {
	var doc ttmlDoc
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return types.ChapterList{}, &types.InvalidExportDataError{Reason: err.Error()}
	}
	var out []types.Chapter
	for _, p := range doc.Body.Ps {
		seconds, err := strconv.ParseFloat(strings.TrimSuffix(p.Begin, "s"), 64)
		if err != nil {
			continue
		}
		out = append(out, types.Chapter{Start: types.NewAudioTimestamp(seconds), Title: strings.TrimSpace(p.Text)})
	}
	return types.NewChapterList(out), nil
}

func formatTTMLTime(t types.AudioTimestamp) string {
	return fmt.Sprintf("%.3fs", t.Seconds())
}
