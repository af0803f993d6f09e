package opds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLibraryFeed(t *testing.T) {
	feed, err := Parse([]byte(libraryFeed))
	require.NoError(t, err)

	assert.Equal(t, "library-1", feed.ID)
	assert.Equal(t, "Manga", feed.Title)
	require.Len(t, feed.Entries, 3)

	first := feed.Entries[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "Blue Period", first.Title)
	require.Len(t, first.Links, 3)
	assert.Equal(t, "http://opds-spec.org/image/thumbnail", first.Links[1].Rel)
	assert.Equal(t, "/api/image/series-cover?seriesId=101&thumb=1", first.Links[1].Href)

	assert.Equal(t, "Dungeon Meshi", feed.Entries[2].Title, "titles are trimmed")

	self, ok := feed.Link("self")
	require.True(t, ok)
	assert.Equal(t, "/api/opds/key/libraries/1", self.Href)
}

func TestParseKeepsNamespacedAttributes(t *testing.T) {
	feed, err := Parse([]byte(chapterFeed))
	require.NoError(t, err)
	require.Len(t, feed.Entries, 1)

	stream := feed.Entries[0].Links[1]
	count, ok := stream.Attr(NamespacePSE, "count")
	require.True(t, ok)
	assert.Equal(t, "24", count)

	_, ok = stream.Attr("", "count")
	assert.False(t, ok, "prefixed attribute must not match the empty namespace")
}

func TestParseLinkAttributePresence(t *testing.T) {
	feed, err := Parse([]byte(seriesFeed))
	require.NoError(t, err)

	link := feed.Entries[1].Links[0]
	_, hasRel := link.Attr("", "rel")
	assert.False(t, hasRel)
	assert.Empty(t, link.Rel)

	_, hasType := link.Attr("", "type")
	assert.True(t, hasType)
}

func TestParseEntryWithoutLinks(t *testing.T) {
	feed, err := Parse([]byte(seriesFeed))
	require.NoError(t, err)

	assert.Empty(t, feed.Entries[2].Links)
}

func TestParseEmptyFeed(t *testing.T) {
	feed, err := Parse([]byte(emptyFeed))
	require.NoError(t, err)

	assert.NotNil(t, feed.Entries)
	assert.Len(t, feed.Entries, 0)
}

func TestParseFeedWithoutNamespace(t *testing.T) {
	feed, err := Parse([]byte(`<feed><entry><id>1</id><title>One</title></entry></feed>`))
	require.NoError(t, err)
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "One", feed.Entries[0].Title)
}

func TestParseAllowsTrailingComment(t *testing.T) {
	feed, err := Parse([]byte("<feed xmlns=\"http://www.w3.org/2005/Atom\"><id>1</id></feed>\n<!-- generated -->\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", feed.ID)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"not xml", "this is not xml"},
		{"json", `{"feed": []}`},
		{"rss root", rssPayload},
		{"unclosed", `<feed xmlns="http://www.w3.org/2005/Atom"><entry><id>1</id>`},
		{"wrong root", `<catalog><entry/></catalog>`},
		{"trailing content", `<feed xmlns="http://www.w3.org/2005/Atom"></feed><garbage`},
		{"second root", `<feed xmlns="http://www.w3.org/2005/Atom"></feed><feed xmlns="http://www.w3.org/2005/Atom"></feed>`},
		{"trailing text", `<feed xmlns="http://www.w3.org/2005/Atom"></feed>oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := Parse([]byte(tt.payload))
			assert.Nil(t, feed)

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T (%v)", err, err)
			}
			assert.NotEmpty(t, perr.Error())
		})
	}
}

func TestParseErrorNamesDetectedKind(t *testing.T) {
	_, err := Parse([]byte(rssPayload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RSS")
}
