package chapterfmt

import (
	"encoding/xml"

	"github.com/segmentio/encoding/json"

	"github.com/atelier-socle/audiomark/internal/types"
)

type podloveChapter struct {
	Start string `json:"start" xml:"start,attr"`
	Title string `json:"title" xml:"title,attr"`
	Href  string `json:"href,omitempty" xml:"href,attr,omitempty"`
}

type podloveDocJSON struct {
	Version  string           `json:"version"`
	Chapters []podloveChapter `json:"chapters"`
}

type podloveDocXML struct {
	XMLName  xml.Name         `xml:"psc:chapters"`
	Version  string           `xml:"version,attr"`
	Chapters []podloveChapter `xml:"psc:chapter"`
}

type podloveJSONAdapter struct{}

func (podloveJSONAdapter) Export(chapters types.ChapterList) (string, error) {
	doc := podloveDocJSON{Version: "1.2"}
	for _, ch := range chapters.Items() {
		doc.Chapters = append(doc.Chapters, podloveChapter{
			Start: ch.Start.String(),
			Title: ch.Title,
			Href:  ch.URL,
		})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", &types.InvalidExportDataError{Reason: err.Error()}
	}
	return string(b), nil
}

func (podloveJSONAdapter) Import(text string) (types.ChapterList, error) {
	var doc podloveDocJSON
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return types.ChapterList{}, &types.InvalidExportDataError{Reason: err.Error()}
	}
	return chaptersFromPodlove(doc.Chapters)
}

type podloveXMLAdapter struct{}

func (podloveXMLAdapter) Export(chapters types.ChapterList) (string, error) {
	doc := podloveDocXML{Version: "1.2"}
	for _, ch := range chapters.Items() {
		doc.Chapters = append(doc.Chapters, podloveChapter{
			Start: ch.Start.String(),
			Title: ch.Title,
			Href:  ch.URL,
		})
	}
	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", &types.InvalidExportDataError{Reason: err.Error()}
	}
	return xml.Header + string(b), nil
}

func (podloveXMLAdapter) Import(text string) (types.ChapterList, error) {
	var doc podloveDocXML
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return types.ChapterList{}, &types.InvalidExportDataError{Reason: err.Error()}
	}
	return chaptersFromPodlove(doc.Chapters)
}

func chaptersFromPodlove(in []podloveChapter) (types.ChapterList, error) {
	var out []types.Chapter
	for _, c := range in {
		start, err := types.ParseAudioTimestamp(c.Start)
		if err != nil {
			return types.ChapterList{}, err
		}
		out = append(out, types.Chapter{Start: start, Title: c.Title, URL: c.Href})
	}
	return types.NewChapterList(out), nil
}
