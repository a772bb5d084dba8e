package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/travel-forecast/internal/cache"
	"github.com/pfrederiksen/travel-forecast/internal/logger"
)

const (
	DefaultDelay      = 1 * time.Second
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "travel-forecast/1.0 (github.com/pfrederiksen/travel-forecast)"
	DefaultFrom       = "travel-forecast@users.noreply.github.com"
	DefaultCourseInfo = "https://si.umich.edu/programs/courses/507"
)

const redacted = "REDACTED"

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// Options configures a Fetcher
type Options struct {
	Delay      time.Duration
	Timeout    time.Duration
	UserAgent  string
	From       string
	CourseInfo string
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Delay:      DefaultDelay,
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		From:       DefaultFrom,
		CourseInfo: DefaultCourseInfo,
	}
}

// Fetcher answers GET requests from a cache.Store, falling back to the network
type Fetcher struct {
	client  *http.Client
	store   cache.Store
	delay   time.Duration
	headers http.Header
	secrets []string
	sleep   func(time.Duration)
	metrics *logger.Metrics
}

// New creates a Fetcher backed by store
func New(store cache.Store, opts Options) *Fetcher {
	headers := make(http.Header)
	if opts.UserAgent != "" {
		headers.Set("User-Agent", opts.UserAgent)
	}
	if opts.From != "" {
		headers.Set("From", opts.From)
	}
	if opts.CourseInfo != "" {
		headers.Set("Course-Info", opts.CourseInfo)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		store:   store,
		delay:   opts.Delay,
		headers: headers,
		sleep:   time.Sleep,
		metrics: logger.DefaultMetrics(),
	}
}

// Redact registers a secret that must never appear in logged URLs
func (f *Fetcher) Redact(secret string) {
	if secret != "" {
		f.secrets = append(f.secrets, secret)
	}
}

// redactedError keeps the wrapped error for errors.Is while hiding secrets in its text.
// *url.Error embeds the full request URL.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func (f *Fetcher) wrap(op string, err error) error {
	return &redactedError{msg: op + ": " + f.redact(err.Error()), err: err}
}

func (f *Fetcher) redact(s string) string {
	for _, secret := range f.secrets {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}

// Fetch returns the body at url, from the cache when present. Entries are keyed by the
// redacted URL so registered secrets are not persisted with the cache.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	key := f.redact(url)

	body, ok, err := f.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("reading cache: %w", err)
	}
	if ok {
		logger.Debug("using cache", logger.Fields{"url": key})
		f.metrics.IncrCounter("cache.hit")
		return body, nil
	}

	logger.Debug("fetching", logger.Fields{"url": key})
	f.metrics.IncrCounter("cache.miss")

	if f.delay > 0 {
		f.sleep(f.delay)
	}

	start := time.Now()
	body, err = f.get(ctx, url)
	f.metrics.RecordTiming("fetch.duration", time.Since(start))
	if err != nil {
		return "", err
	}

	if err := f.store.Put(ctx, key, body); err != nil {
		return "", fmt.Errorf("writing cache: %w", err)
	}

	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", f.wrap("creating request", err)
	}
	for name, values := range f.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.wrap("fetching page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: f.redact(url), StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	return string(data), nil
}
