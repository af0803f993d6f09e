package data

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageURLSubstitutesIndex(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 24, 130} {
		stream := PageStream{
			ChapterID:       "ch-1",
			PageCount:       n,
			PageURLTemplate: "https://library.example/api/image?chapterId=12&pageNumber={pageNumber}",
		}

		for i := 0; i < n; i++ {
			url, err := stream.PageURL(i)
			require.NoError(t, err)

			want := "https://library.example/api/image?chapterId=12&pageNumber=" + strconv.Itoa(i)
			assert.Equal(t, want, url)
			assert.NotContains(t, url, PageNumberToken)
		}
	}
}

func TestPageURLNoPadding(t *testing.T) {
	stream := PageStream{PageCount: 12, PageURLTemplate: "/stream/{pageNumber}.jpg"}

	url, err := stream.PageURL(3)
	require.NoError(t, err)
	assert.Equal(t, "/stream/3.jpg", url)

	url, err = stream.PageURL(11)
	require.NoError(t, err)
	assert.Equal(t, "/stream/11.jpg", url)
}

func TestPageURLOutOfRange(t *testing.T) {
	stream := PageStream{PageCount: 5, PageURLTemplate: "/stream/{pageNumber}"}

	for _, index := range []int{-1, 5, 6, 100} {
		_, err := stream.PageURL(index)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("PageURL(%d): expected ErrIndexOutOfRange, got %v", index, err)
		}
	}
}

func TestPageURLEmptyStream(t *testing.T) {
	stream := PageStream{PageCount: 0, PageURLTemplate: "/stream/{pageNumber}"}

	_, err := stream.PageURL(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Empty(t, stream.PageURLs())
}

func TestPageURLsOrder(t *testing.T) {
	stream := PageStream{PageCount: 3, PageURLTemplate: "/p/{pageNumber}"}

	urls := stream.PageURLs()
	assert.Equal(t, []string{"/p/0", "/p/1", "/p/2"}, urls)
	for _, u := range urls {
		assert.False(t, strings.Contains(u, "{"))
	}
}

func TestProgressFinished(t *testing.T) {
	assert.False(t, Progress{Page: 0, PageCount: 0}.Finished())
	assert.False(t, Progress{Page: 3, PageCount: 10}.Finished())
	assert.True(t, Progress{Page: 9, PageCount: 10}.Finished())
}
