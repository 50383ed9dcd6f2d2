package types

import "sort"

// Chapter is an opaque-identity chapter marker.
type Chapter struct {
	ID       string
	Start    AudioTimestamp
	End      *AudioTimestamp
	Title    string
	URL      string
	Artwork  *Artwork
}

// ChapterList is an ordered sequence of Chapters.
type ChapterList struct {
	items []Chapter
}

// NewChapterList builds a ChapterList from a slice, copying it.
func NewChapterList(chapters []Chapter) ChapterList {
	cp := make([]Chapter, len(chapters))
	copy(cp, chapters)
	return ChapterList{items: cp}
}

// Len returns the number of chapters.
func (c ChapterList) Len() int { return len(c.items) }

// Items returns a copy of the underlying slice.
func (c ChapterList) Items() []Chapter {
	cp := make([]Chapter, len(c.items))
	copy(cp, c.items)
	return cp
}

// Append returns a new ChapterList with ch appended.
func (c ChapterList) Append(ch Chapter) ChapterList {
	return NewChapterList(append(c.Items(), ch))
}

// Insert returns a new ChapterList with ch inserted at index i.
func (c ChapterList) Insert(i int, ch Chapter) ChapterList {
	items := c.Items()
	if i < 0 {
		i = 0
	}
	if i > len(items) {
		i = len(items)
	}
	out := make([]Chapter, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, ch)
	out = append(out, items[i:]...)
	return NewChapterList(out)
}

// Remove returns a new ChapterList with the chapter at index i removed.
func (c ChapterList) Remove(i int) ChapterList {
	items := c.Items()
	if i < 0 || i >= len(items) {
		return NewChapterList(items)
	}
	out := make([]Chapter, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return NewChapterList(out)
}

// SortByStart returns a new ChapterList ordered by ascending start time.
func (c ChapterList) SortByStart() ChapterList {
	items := c.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Start.Seconds() < items[j].Start.Seconds()
	})
	return NewChapterList(items)
}

// DeriveEndTimes returns a new ChapterList where every chapter's end time is
// set to the next chapter's start, and the last chapter's end is set to
// audioDuration (when known) or start+1ms otherwise.
func (c ChapterList) DeriveEndTimes(audioDuration *AudioTimestamp) ChapterList {
	items := c.Items()
	out := make([]Chapter, len(items))
	for i, ch := range items {
		out[i] = ch
		switch {
		case ch.End != nil:
			// explicit end preserved
		case i+1 < len(items):
			end := items[i+1].Start
			out[i].End = &end
		case audioDuration != nil:
			end := *audioDuration
			out[i].End = &end
		default:
			end := NewAudioTimestamp(ch.Start.Seconds() + 0.001)
			out[i].End = &end
		}
	}
	return NewChapterList(out)
}
