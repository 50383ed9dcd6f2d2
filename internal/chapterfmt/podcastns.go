package chapterfmt

import (
	"github.com/segmentio/encoding/json"

	"github.com/atelier-socle/audiomark/internal/types"
)

// podcastNSChapter mirrors the Podcasting 2.0 namespace chapters.json entry
// shape (https://github.com/Podcastindex-org/podcast-namespace).
type podcastNSChapter struct {
	StartTime float64 `json:"startTime"`
	Title     string  `json:"title"`
	Img       string  `json:"img,omitempty"`
	URL       string  `json:"url,omitempty"`
}

type podcastNSDoc struct {
	Version  string             `json:"version"`
	Chapters []podcastNSChapter `json:"chapters"`
}

type podcastNSAdapter struct{}

func (podcastNSAdapter) Export(chapters types.ChapterList) (string, error) {
	doc := podcastNSDoc{Version: "1.2.0"}
	for _, ch := range chapters.Items() {
		img := ""
		if ch.Artwork != nil {
			img = "data:image/" + ch.Artwork.Format().String() + ";base64,<inline>"
		}
		doc.Chapters = append(doc.Chapters, podcastNSChapter{
			StartTime: ch.Start.Seconds(),
			Title:     ch.Title,
			Img:       img,
			URL:       ch.URL,
		})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", &types.InvalidExportDataError{Reason: err.Error()}
	}
	return string(b), nil
}

func (podcastNSAdapter) Import(text string) (types.ChapterList, error) {
	var doc podcastNSDoc
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return types.ChapterList{}, &types.InvalidExportDataError{Reason: err.Error()}
	}
	var out []types.Chapter
	for _, c := range doc.Chapters {
		out = append(out, types.Chapter{
			Start: types.NewAudioTimestamp(c.StartTime),
			Title: c.Title,
			URL:   c.URL,
		})
	}
	return types.NewChapterList(out), nil
}
