package opds

import (
	"mime"
	"regexp"
	"strings"

	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/samber/lo"
)

var volumeSegment = regexp.MustCompile(`/volume/([^/?#]+)`)

// SeriesResult is a partially successful library mapping: every entry ends up
// in exactly one of Series or Errors, in feed order.
type SeriesResult struct {
	Series []data.Series
	Errors []*MappingError
}

// ToSeriesList maps a library feed to series. The thumbnail is the first link
// whose rel contains "thumbnail"; an entry without one is reported, not dropped
// silently and not given a substitute.
func ToSeriesList(feed *RawFeed) SeriesResult {
	result := SeriesResult{Series: []data.Series{}}
	if feed == nil {
		return result
	}

	for i, entry := range feed.Entries {
		thumb, ok := lo.Find(entry.Links, func(l RawLink) bool {
			return strings.Contains(l.Rel, "thumbnail")
		})
		if !ok {
			result.Errors = append(result.Errors, &MappingError{
				EntryID:  entry.ID,
				Title:    entry.Title,
				Position: i,
				Err:      ErrMissingThumbnail,
			})
			continue
		}

		result.Series = append(result.Series, data.Series{
			ID:            entry.ID,
			Title:         entry.Title,
			ThumbnailPath: thumb.Href,
		})
	}

	return result
}

// ToChapterList maps every entry of a series feed to a chapter. An empty feed
// yields an empty list.
func ToChapterList(feed *RawFeed) []data.Chapter {
	if feed == nil {
		return []data.Chapter{}
	}

	return lo.Map(feed.Entries, func(entry RawEntry, _ int) data.Chapter {
		chapter := data.Chapter{ID: entry.ID, Title: entry.Title}
		if nav, ok := lo.Find(entry.Links, isNavigationLink); ok {
			chapter.Href = nav.Href
			if m := volumeSegment.FindStringSubmatch(nav.Href); m != nil {
				chapter.VolumeID = m[1]
			}
		}
		return chapter
	})
}

func isNavigationLink(l RawLink) bool {
	if l.Href == "" {
		return false
	}
	if l.Rel == RelSubsection {
		return true
	}
	mt, _, err := mime.ParseMediaType(l.Type)
	return err == nil && mt == "application/atom+xml"
}
