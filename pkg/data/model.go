package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PageNumberToken is the placeholder an OPDS-PSE stream href carries for the page index.
const PageNumberToken = "{pageNumber}"

var ErrIndexOutOfRange = errors.New("page index out of range")

type Series struct {
	ID            string
	Title         string
	ThumbnailPath string
}

// Chapter belongs to a series. Href is the chapter's own catalog link when the
// feed provides one; VolumeID is only needed when it doesn't.
type Chapter struct {
	ID       string
	SeriesID string
	Title    string
	VolumeID string
	Href     string
}

// PageStream is the resolved, addressable page sequence of one chapter.
type PageStream struct {
	ChapterID       string
	PageCount       int
	PageURLTemplate string
	LastRead        int // server-side reading position, 0 when unknown
}

// PageURL returns the image URL of the zero-based page index.
func (s PageStream) PageURL(index int) (string, error) {
	if index < 0 || index >= s.PageCount {
		return "", fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, s.PageCount)
	}
	return strings.Replace(s.PageURLTemplate, PageNumberToken, strconv.Itoa(index), 1), nil
}

// PageURLs lists every page URL in index order.
func (s PageStream) PageURLs() []string {
	urls := make([]string, s.PageCount)
	for i := range urls {
		urls[i], _ = s.PageURL(i)
	}
	return urls
}

// Progress is a reading bookmark for one chapter.
type Progress struct {
	ChapterID    string
	SeriesID     string
	SeriesTitle  string
	ChapterTitle string
	Page         int
	PageCount    int
	UpdatedAt    time.Time
}

func (p Progress) Finished() bool {
	return p.PageCount > 0 && p.Page >= p.PageCount-1
}
