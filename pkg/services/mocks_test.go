package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/opds"
)

// Mock implementations for testing

type mockSource struct {
	listSeriesFunc    func(ctx context.Context) (opds.SeriesResult, error)
	getChaptersFunc   func(ctx context.Context, seriesID string) ([]data.Chapter, error)
	getPageStreamFunc func(ctx context.Context, chapter data.Chapter) (data.PageStream, error)
}

func (m *mockSource) ListSeries(ctx context.Context) (opds.SeriesResult, error) {
	if m.listSeriesFunc != nil {
		return m.listSeriesFunc(ctx)
	}
	return opds.SeriesResult{}, nil
}

func (m *mockSource) GetChapters(ctx context.Context, seriesID string) ([]data.Chapter, error) {
	if m.getChaptersFunc != nil {
		return m.getChaptersFunc(ctx, seriesID)
	}
	return nil, nil
}

func (m *mockSource) GetPageStream(ctx context.Context, chapter data.Chapter) (data.PageStream, error) {
	if m.getPageStreamFunc != nil {
		return m.getPageStreamFunc(ctx, chapter)
	}
	return data.PageStream{}, nil
}

type mockStore struct {
	mu                     sync.Mutex
	saved                  []*data.Progress
	saveProgressFunc       func(p *data.Progress) error
	getProgressFunc        func(chapterID string) (*data.Progress, error)
	listProgressFunc       func(limit int) ([]*data.Progress, error)
	listSeriesProgressFunc func(seriesID string) (map[string]*data.Progress, error)
	closed                 bool
}

func (m *mockStore) SaveProgress(p *data.Progress) error {
	m.mu.Lock()
	m.saved = append(m.saved, p)
	m.mu.Unlock()
	if m.saveProgressFunc != nil {
		return m.saveProgressFunc(p)
	}
	return nil
}

func (m *mockStore) GetProgress(chapterID string) (*data.Progress, error) {
	if m.getProgressFunc != nil {
		return m.getProgressFunc(chapterID)
	}
	return nil, nil
}

func (m *mockStore) ListProgress(limit int) ([]*data.Progress, error) {
	if m.listProgressFunc != nil {
		return m.listProgressFunc(limit)
	}
	return nil, nil
}

func (m *mockStore) ListSeriesProgress(seriesID string) (map[string]*data.Progress, error) {
	if m.listSeriesProgressFunc != nil {
		return m.listSeriesProgressFunc(seriesID)
	}
	return map[string]*data.Progress{}, nil
}

func (m *mockStore) Close() error {
	m.closed = true
	return nil
}

// createTestPNG returns an encoded w x h image.
func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}
