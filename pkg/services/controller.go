package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/logging"
	"github.com/kerbaras/opdsreader/pkg/opds"
	"github.com/kerbaras/opdsreader/pkg/sources"
)

// ProgressStore persists reading bookmarks.
type ProgressStore interface {
	SaveProgress(p *data.Progress) error
	GetProgress(chapterID string) (*data.Progress, error)
	ListProgress(limit int) ([]*data.Progress, error)
	ListSeriesProgress(seriesID string) (map[string]*data.Progress, error)
	Close() error
}

// Reading is an opened chapter: its page stream and the page to start on.
type Reading struct {
	Series    data.Series
	Chapter   data.Chapter
	Stream    data.PageStream
	StartPage int
}

// ReaderController connects the catalog source, the page loader and the
// progress store for the CLI and the TUI.
type ReaderController struct {
	source sources.Source
	store  ProgressStore
	pages  *PageLoader
	now    func() time.Time
}

func NewReaderController(source sources.Source, store ProgressStore, pages *PageLoader) *ReaderController {
	return &ReaderController{source: source, store: store, pages: pages, now: time.Now}
}

func (c *ReaderController) Pages() *PageLoader { return c.pages }

// ListSeries returns the library. Entries that could not be mapped are logged
// and left in the result for the caller to show.
func (c *ReaderController) ListSeries(ctx context.Context) (opds.SeriesResult, error) {
	result, err := c.source.ListSeries(ctx)
	if err != nil {
		return opds.SeriesResult{}, fmt.Errorf("failed to list series: %w", err)
	}
	for _, merr := range result.Errors {
		logging.Warn("skipping catalog entry", "entry", merr.EntryID, "title", merr.Title, "err", merr.Err)
	}
	return result, nil
}

// ListChapters returns the chapters of series with any saved bookmarks, keyed
// by chapter id. A broken progress store does not hide the chapters.
func (c *ReaderController) ListChapters(ctx context.Context, seriesID string) ([]data.Chapter, map[string]*data.Progress, error) {
	if seriesID == "" {
		return nil, nil, errors.New("series id cannot be empty")
	}

	chapters, err := c.source.GetChapters(ctx, seriesID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	progress := map[string]*data.Progress{}
	if c.store != nil {
		saved, err := c.store.ListSeriesProgress(seriesID)
		if err != nil {
			logging.Warn("failed to load progress", "series", seriesID, "err", err)
		} else {
			progress = saved
		}
	}

	return chapters, progress, nil
}

// OpenChapter resolves the chapter's page stream. Reading resumes from the
// local bookmark, then from the server's lastRead hint, then from page 0.
func (c *ReaderController) OpenChapter(ctx context.Context, series data.Series, chapter data.Chapter) (*Reading, error) {
	if chapter.SeriesID == "" {
		chapter.SeriesID = series.ID
	}

	stream, err := c.source.GetPageStream(ctx, chapter)
	if err != nil {
		return nil, fmt.Errorf("failed to open chapter: %w", err)
	}

	start := stream.LastRead
	if c.store != nil {
		saved, err := c.store.GetProgress(chapter.ID)
		if err != nil {
			logging.Warn("failed to load progress", "chapter", chapter.ID, "err", err)
		} else if saved != nil && saved.Page >= 0 && saved.Page < stream.PageCount {
			start = saved.Page
		}
	}
	if start < 0 || start >= stream.PageCount {
		start = 0
	}

	logging.Info("opened chapter", "series", series.ID, "chapter", chapter.ID, "pages", stream.PageCount, "start", start)

	return &Reading{Series: series, Chapter: chapter, Stream: stream, StartPage: start}, nil
}

// SaveProgress bookmarks page of an opened chapter.
func (c *ReaderController) SaveProgress(r *Reading, page int) error {
	if r == nil {
		return errors.New("reading cannot be nil")
	}
	if c.store == nil {
		return nil
	}
	if page < 0 || (r.Stream.PageCount > 0 && page >= r.Stream.PageCount) {
		return fmt.Errorf("%w: %d", data.ErrIndexOutOfRange, page)
	}

	err := c.store.SaveProgress(&data.Progress{
		ChapterID:    r.Chapter.ID,
		SeriesID:     r.Series.ID,
		SeriesTitle:  r.Series.Title,
		ChapterTitle: r.Chapter.Title,
		Page:         page,
		PageCount:    r.Stream.PageCount,
		UpdatedAt:    c.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// History lists bookmarks, most recent first.
func (c *ReaderController) History(limit int) ([]*data.Progress, error) {
	if c.store == nil {
		return []*data.Progress{}, nil
	}
	return c.store.ListProgress(limit)
}

func (c *ReaderController) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
