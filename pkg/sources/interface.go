package sources

import (
	"context"

	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/opds"
)

// Source is an OPDS catalog server. Every call performs network I/O.
type Source interface {
	ListSeries(ctx context.Context) (opds.SeriesResult, error)
	GetChapters(ctx context.Context, seriesID string) ([]data.Chapter, error)
	GetPageStream(ctx context.Context, chapter data.Chapter) (data.PageStream, error)
}
