package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/logging"
	"github.com/kerbaras/opdsreader/pkg/opds"
	"github.com/kerbaras/opdsreader/pkg/utils"
)

// maxFeedPages bounds how many rel="next" links a single listing follows.
const maxFeedPages = 50

var ErrVolumeRequired = errors.New("chapter has neither a catalog link nor a volume id")

// FetchError is a failed GET: a transport error, or a response outside 2xx.
// StatusCode is 0 when no response arrived.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

type KavitaOptions struct {
	BaseURL   string
	OPDSPath  string
	APIKey    string
	LibraryID string
	Timeout   time.Duration
	UserAgent string
}

// Kavita reads the OPDS catalog a Kavita server exposes under
// {opdsPath}/{apiKey}.
type Kavita struct {
	client    *resty.Client
	baseURL   string
	opdsPath  string
	apiKey    string
	libraryID string
}

func NewKavita(opts KavitaOptions) *Kavita {
	client := resty.New().
		SetHeader("Accept", "application/atom+xml, application/xml;q=0.9")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	opdsPath := opts.OPDSPath
	if opdsPath == "" {
		opdsPath = "/api/opds"
	}

	return &Kavita{
		client:    client,
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		opdsPath:  "/" + strings.Trim(opdsPath, "/"),
		apiKey:    opts.APIKey,
		libraryID: opts.LibraryID,
	}
}

func (k *Kavita) BaseURL() string { return k.baseURL }

// URL resolves a server-relative href, such as a thumbnail path.
func (k *Kavita) URL(href string) string {
	return utils.JoinURL(k.baseURL, href)
}

func (k *Kavita) path(segments ...string) string {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, url.PathEscape(k.apiKey))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return k.opdsPath + "/" + strings.Join(escaped, "/")
}

// Redact keeps the API key, raw or path-escaped, out of logs and error
// messages. Page URLs of the stream carry the key too.
func (k *Kavita) Redact(s string) string {
	if k.apiKey == "" {
		return s
	}
	s = strings.ReplaceAll(s, k.apiKey, "***")
	return strings.ReplaceAll(s, url.PathEscape(k.apiKey), "***")
}

// RedactError rewrites the text of err with redact while keeping it
// matchable with errors.Is and errors.As.
func RedactError(err error, redact func(string) string) error {
	if err == nil || redact == nil {
		return err
	}
	return &redactedError{msg: redact(err.Error()), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func (k *Kavita) fetch(ctx context.Context, href string) (*opds.RawFeed, error) {
	target := k.URL(href)
	logging.WithPrefix("kavita").Debug("fetching feed", "url", k.Redact(target))

	resp, err := k.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, &FetchError{URL: k.Redact(target), Err: RedactError(err, k.Redact)}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{URL: k.Redact(target), StatusCode: resp.StatusCode()}
	}

	return opds.Parse(resp.Body())
}

// walk fetches href and every feed reachable through rel="next", visiting each
// URL at most once.
func (k *Kavita) walk(ctx context.Context, href string, visit func(*opds.RawFeed)) error {
	seen := make(map[string]bool)
	for i := 0; href != "" && i < maxFeedPages; i++ {
		target := k.URL(href)
		if seen[target] {
			logging.WithPrefix("kavita").Warn("pagination loop", "url", k.Redact(target))
			return nil
		}
		seen[target] = true

		feed, err := k.fetch(ctx, href)
		if err != nil {
			return err
		}
		visit(feed)

		href = ""
		if next, ok := feed.Link(opds.RelNext); ok {
			href = next.Href
		}
	}
	return nil
}

func (k *Kavita) ListSeries(ctx context.Context) (opds.SeriesResult, error) {
	result := opds.SeriesResult{Series: []data.Series{}}
	offset := 0

	err := k.walk(ctx, k.path("libraries", k.libraryID), func(feed *opds.RawFeed) {
		page := opds.ToSeriesList(feed)
		for _, merr := range page.Errors {
			merr.Position += offset
		}
		offset += len(feed.Entries)
		result.Series = append(result.Series, page.Series...)
		result.Errors = append(result.Errors, page.Errors...)
	})
	if err != nil {
		return opds.SeriesResult{}, fmt.Errorf("failed to list library %s: %w", k.libraryID, err)
	}

	return result, nil
}

func (k *Kavita) GetChapters(ctx context.Context, seriesID string) ([]data.Chapter, error) {
	chapters := []data.Chapter{}

	err := k.walk(ctx, k.path("series", seriesID), func(feed *opds.RawFeed) {
		chapters = append(chapters, opds.ToChapterList(feed)...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters of series %s: %w", seriesID, err)
	}

	for i := range chapters {
		chapters[i].SeriesID = seriesID
	}
	return chapters, nil
}

// GetPageStream fetches the chapter's own feed, found through its catalog link
// or, lacking one, built from series, volume and chapter ids.
func (k *Kavita) GetPageStream(ctx context.Context, chapter data.Chapter) (data.PageStream, error) {
	href := chapter.Href
	if href == "" {
		if chapter.VolumeID == "" || chapter.SeriesID == "" {
			return data.PageStream{}, fmt.Errorf("%w: chapter %s", ErrVolumeRequired, chapter.ID)
		}
		href = k.path("series", chapter.SeriesID, "volume", chapter.VolumeID, "chapter", chapter.ID)
	}

	feed, err := k.fetch(ctx, href)
	if err != nil {
		return data.PageStream{}, fmt.Errorf("failed to get chapter %s: %w", chapter.ID, err)
	}

	stream, err := opds.Resolve(feed, k.baseURL)
	if err != nil {
		return data.PageStream{}, fmt.Errorf("failed to resolve chapter %s: %w", chapter.ID, err)
	}
	return stream, nil
}
