package pipeline

import (
	"context"
	"errors"
	"fmt"
	"go-etl-pipeline/internal/model"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ------------------- Fetch Errors -------------------

// ErrFetchFailed matches every *FetchError via errors.Is
var ErrFetchFailed = errors.New("fetch failed")

// FetchErrorKind classifies why a fetch did not produce a RecordSet
type FetchErrorKind string

const (
	KindTransport FetchErrorKind = "transport" // network / timeout / cancelled
	KindStatus    FetchErrorKind = "status"    // non-2xx response
	KindDecode    FetchErrorKind = "decode"    // body is not a JSON array
	KindSchema    FetchErrorKind = "schema"    // element misses or mistypes a required key
)

// FetchError is the single error kind the fetch stage reports
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetch %s: %s error: HTTP %d", e.URL, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s error: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// ------------------- Fetcher -------------------

// Fetcher retrieves one RecordSet from a resource locator.
// A nil set is only ever returned together with a non-nil error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.RecordSet, error)
}

// HTTPFetcher issues a single GET per Fetch call
type HTTPFetcher struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPFetcher builds a fetcher; timeout <= 0 keeps resty's default (none)
func NewHTTPFetcher(timeout time.Duration, logger *zap.Logger) *HTTPFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPFetcher{client: client, logger: logger}
}

// Fetch performs the GET, checks the status and decodes the body into posts
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*model.RecordSet, error) {
	f.logger.Debug("GET JSON", zap.String("stage", "ingestion"), zap.String("url", url))

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{
			Kind:       KindStatus,
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	posts, err := DecodePosts(resp.Body())
	if err != nil {
		kind := KindDecode
		if errors.Is(err, ErrSchemaMismatch) {
			kind = KindSchema
		}
		return nil, &FetchError{Kind: kind, URL: url, StatusCode: resp.StatusCode(), Err: err}
	}

	f.logger.Info("Successfully fetched data from API",
		zap.String("stage", "ingestion"),
		zap.String("url", url),
		zap.Int("records", len(posts)),
	)

	return &model.RecordSet{
		SourceURL: url,
		FetchedAt: time.Now().UTC(),
		Posts:     posts,
	}, nil
}
