package services

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/logging"
	"github.com/kerbaras/opdsreader/pkg/sources"
	"github.com/sourcegraph/conc/pool"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/time/rate"
)

// PageImage is what a probe learns about a page without decoding its pixels.
type PageImage struct {
	Width  int
	Height int
	Format string
}

// PageResult reports one probed page of a chapter. Err is set when the page
// could not be fetched or its header decoded.
type PageResult struct {
	ChapterID string
	Index     int
	Image     PageImage
	Err       error
}

type PageLoaderOptions struct {
	Concurrency       int
	RequestsPerSecond float64
	Timeout           time.Duration
	UserAgent         string
	// Redact scrubs secrets, such as an API key in the page path, from URLs
	// that end up in errors and logs.
	Redact func(string) string
}

// PageLoader probes page images for their natural dimensions. Requests from
// all probes share one rate limiter.
type PageLoader struct {
	client      *resty.Client
	limiter     *rate.Limiter
	concurrency int
	redact      func(string) string
}

func NewPageLoader(opts PageLoaderOptions) *PageLoader {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	redact := opts.Redact
	if redact == nil {
		redact = func(s string) string { return s }
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &PageLoader{
		client:      client,
		limiter:     rate.NewLimiter(limit, 1),
		concurrency: concurrency,
		redact:      redact,
	}
}

// Probe fetches url and decodes only the image header.
func (l *PageLoader) Probe(ctx context.Context, url string) (PageImage, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return PageImage{}, err
	}

	resp, err := l.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return PageImage{}, &sources.FetchError{URL: l.redact(url), Err: sources.RedactError(err, l.redact)}
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return PageImage{}, &sources.FetchError{URL: l.redact(url), StatusCode: resp.StatusCode()}
	}

	cfg, format, err := image.DecodeConfig(body)
	if err != nil {
		return PageImage{}, fmt.Errorf("failed to decode page image: %w", err)
	}

	return PageImage{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ProbeAll probes every page of stream. onPage runs once per page, in
// completion order and possibly from several goroutines at once. A failing
// page is reported through its result and does not stop the others. Pages
// still pending when ctx is done are not reported, and ProbeAll returns the
// context's error.
func (l *PageLoader) ProbeAll(ctx context.Context, stream data.PageStream, onPage func(PageResult)) error {
	p := pool.New().WithContext(ctx).WithMaxGoroutines(l.concurrency)

	for i, url := range stream.PageURLs() {
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}

			img, err := l.Probe(ctx, url)
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				logging.WithPrefix("pages").Warn("page probe failed", "chapter", stream.ChapterID, "page", i, "err", err)
			}

			onPage(PageResult{ChapterID: stream.ChapterID, Index: i, Image: img, Err: err})
			return nil
		})
	}

	_ = p.Wait()
	return ctx.Err()
}

// Stream runs ProbeAll in the background. The channel is buffered for the
// whole chapter and closed when probing ends.
func (l *PageLoader) Stream(ctx context.Context, stream data.PageStream) <-chan PageResult {
	results := make(chan PageResult, stream.PageCount)

	go func() {
		defer close(results)
		_ = l.ProbeAll(ctx, stream, func(r PageResult) {
			results <- r
		})
	}()

	return results
}
