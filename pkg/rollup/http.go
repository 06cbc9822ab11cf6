package rollup

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/yourcommute/pkg/buildinfo"
	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/httputil"
	"github.com/matzehuels/yourcommute/pkg/observability"
)

const (
	httpTimeout   = 30 * time.Second
	retryAttempts = 3
	retryDelay    = 500 * time.Millisecond
)

// HTTPSource loads rollup files from a static file server.
type HTTPSource struct {
	base    string
	http    *http.Client
	headers map[string]string
	delay   time.Duration
}

// NewHTTPSource returns a source for files under base, for example
// "https://example.org/data". Pass nil for headers if none are needed.
func NewHTTPSource(base string, headers map[string]string) (*HTTPSource, error) {
	if err := errors.ValidateURL(base); err != nil {
		return nil, err
	}
	return &HTTPSource{
		base:    strings.TrimSuffix(base, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		headers: headers,
		delay:   retryDelay,
	}, nil
}

// String returns the base URL.
func (s *HTTPSource) String() string { return s.base }

// URL returns the file URL for an origin station.
func (s *HTTPSource) URL(from string) string {
	return s.base + "/" + FileName(from)
}

// Load fetches and decodes the file for from. Network failures and 5xx
// responses are retried. A 404 is reported as NOT_FOUND, and every other
// failure as FETCH_FAILED, NETWORK_ERROR or TIMEOUT.
func (s *HTTPSource) Load(ctx context.Context, from string, progress func(pct int)) (File, error) {
	if err := errors.ValidateStationID(from); err != nil {
		return nil, err
	}

	var f File
	err := httputil.Retry(ctx, retryAttempts, s.delay, func() error {
		var err error
		f, err = s.fetch(ctx, s.URL(from), progress)
		return err
	})
	if err != nil {
		return nil, classify(err, from)
	}
	return f, nil
}

func (s *HTTPSource) fetch(ctx context.Context, rawURL string, progress func(int)) (File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := s.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", redact(rawURL))}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, rawURL); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(httputil.NewProgressReader(resp.Body, resp.ContentLength, progress))
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", redact(rawURL))}
	}
	f, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "decode %s", redact(rawURL))
	}
	return f, nil
}

func checkStatus(code int, rawURL string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "no rollup at %s", redact(rawURL))
	case httputil.RetryableStatus(code):
		return &httputil.RetryableError{
			Err:    errors.New(errors.ErrCodeFetchFailed, "GET %s: status %d", redact(rawURL), code),
			Status: code,
		}
	default:
		return errors.New(errors.ErrCodeFetchFailed, "GET %s: status %d", redact(rawURL), code)
	}
}

// classify unwraps retry markers and maps deadline errors to TIMEOUT.
func classify(err error, from string) error {
	var re *httputil.RetryableError
	if errors.As(err, &re) {
		err = re.Err
	}
	if errors.Is(err, errors.ErrCodeNotFound) || errors.Is(err, errors.ErrCodeFetchFailed) {
		return err
	}
	if errors.IsDeadline(err) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "load rollup for %s", from)
	}
	if errors.Is(err, errors.ErrCodeNetwork) {
		return err
	}
	return errors.Wrap(errors.ErrCodeFetchFailed, err, "load rollup for %s", from)
}

// redact drops query strings, which may carry access tokens.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
