package opds

import (
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/utils"
	"github.com/samber/lo"
)

// Resolve turns a chapter feed into its page stream. The feed must hold exactly
// one entry, and that entry a link with rel RelPSEStream, an image/* type and a
// pse:count attribute.
func Resolve(feed *RawFeed, baseURL string) (data.PageStream, error) {
	if feed == nil || len(feed.Entries) != 1 {
		n := 0
		if feed != nil {
			n = len(feed.Entries)
		}
		return data.PageStream{}, fmt.Errorf("%w: got %d", ErrEntryNotFound, n)
	}
	entry := feed.Entries[0]

	link, ok := lo.Find(entry.Links, isStreamLink)
	if !ok {
		return data.PageStream{}, fmt.Errorf("%w in entry %q", ErrStreamLinkNotFound, entry.ID)
	}

	raw, ok := link.Attr(NamespacePSE, "count")
	if !ok {
		return data.PageStream{}, fmt.Errorf("%w: count attribute missing", ErrInvalidPageCount)
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return data.PageStream{}, fmt.Errorf("%w: %q", ErrInvalidPageCount, raw)
	}

	switch tokens := strings.Count(link.Href, data.PageNumberToken); {
	case tokens > 1:
		return data.PageStream{}, fmt.Errorf("%w: %q", ErrPlaceholderRepeat, link.Href)
	case tokens == 0 && count > 0:
		return data.PageStream{}, fmt.Errorf("%w: %q", ErrPlaceholderMissing, link.Href)
	}

	return data.PageStream{
		ChapterID:       entry.ID,
		PageCount:       count,
		PageURLTemplate: utils.JoinURL(baseURL, link.Href),
		LastRead:        lastRead(link, count),
	}, nil
}

func isStreamLink(l RawLink) bool {
	if l.Rel != RelPSEStream {
		return false
	}
	mt, _, err := mime.ParseMediaType(l.Type)
	return err == nil && strings.HasPrefix(mt, "image/")
}

// lastRead is a hint only; anything unusable reads as the first page.
func lastRead(l RawLink, count int) int {
	raw, ok := l.Attr(NamespacePSE, "lastRead")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n >= count {
		return 0
	}
	return n
}
