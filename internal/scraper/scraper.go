package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/logger"
	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// UserAgent is the desktop browser string the upstream site expects.
	UserAgent = "Mozilla/5.0 (Windows; U; Windows NT 6.1; en-US; rv:1.9.2.12) Gecko/20101026 Firefox/3.6.12"
	Timeout   = 30 * time.Second
	// DefaultCharset is the encoding upstream pages are served in.
	DefaultCharset = "windows-1252"
	MaxBodySize    = 5 << 20
	RetryWait      = 500 * time.Millisecond
)

// Options configures a Scraper. Zero values fall back to the package defaults.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	Charset     string
	MaxBodySize int64
	// Retries is how often a transient failure (network error, 429 or 5xx)
	// is retried with exponential backoff. Zero disables retrying.
	Retries   int
	RetryWait time.Duration
}

// Scraper fetches and parses upstream league pages.
type Scraper struct {
	client    *resty.Client
	charset   encoding.Encoding
	maxBody   int64
	retries   int
	retryWait time.Duration
}

// New creates a Scraper with default options.
func New() *Scraper {
	s, _ := NewWithOptions(Options{})
	return s
}

// NewWithOptions creates a Scraper. It fails only for an unknown charset.
func NewWithOptions(opts Options) (*Scraper, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = MaxBodySize
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = RetryWait
	}

	enc, err := LookupCharset(opts.Charset)
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	return &Scraper{
		client:    client,
		charset:   enc,
		maxBody:   opts.MaxBodySize,
		retries:   max(opts.Retries, 0),
		retryWait: opts.RetryWait,
	}, nil
}

// LookupCharset resolves a charset name. An empty name means DefaultCharset.
func LookupCharset(name string) (encoding.Encoding, error) {
	if name == "" {
		return charmap.Windows1252, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	return enc, nil
}

// Fetch downloads url and returns the normalized rows for kind.
func (s *Scraper) Fetch(ctx context.Context, url string, kind league.Kind) (league.Dataset, error) {
	doc, err := s.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	raw, err := Extract(doc, kind)
	if err != nil {
		return nil, fmt.Errorf("extracting %s rows from %s: %w", kind, url, err)
	}

	rows := Normalize(raw, kind)
	logger.Debug("extracted rows", logger.Fields{
		"url":  url,
		"kind": kind.String(),
		"raw":  len(raw),
		"rows": len(rows),
	})
	return rows, nil
}

// FetchDocument downloads url, decodes it to UTF-8 and parses it.
func (s *Scraper) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := s.fetchBody(ctx, url)
	if err != nil {
		logger.IncrCounter("scraper.fetch_errors")
		return nil, err
	}

	decoded, err := s.charset.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// fetchBody downloads url, retrying transient failures up to s.retries times.
func (s *Scraper) fetchBody(ctx context.Context, url string) ([]byte, error) {
	if s.retries == 0 {
		return s.fetchOnce(ctx, url)
	}

	var body []byte
	op := func() error {
		b, err := s.fetchOnce(ctx, url)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryWait
	notify := func(err error, wait time.Duration) {
		logger.Warn("retrying upstream request", logger.Fields{
			"url":   url,
			"error": err.Error(),
			"wait":  wait.String(),
		})
		logger.IncrCounter("scraper.retries")
	}
	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.retries)), ctx), notify)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// retryable reports whether a failed request may succeed when repeated.
func retryable(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	if fe.StatusCode == 0 {
		return !errors.Is(fe.Err, context.Canceled)
	}
	return fe.StatusCode == http.StatusTooManyRequests || fe.StatusCode >= http.StatusInternalServerError
}

func (s *Scraper) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("scraper.fetch", time.Since(start))
	}()

	res, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	raw := res.RawBody()
	defer raw.Close()

	if !res.IsSuccess() {
		return nil, &FetchError{URL: url, StatusCode: res.StatusCode(), Err: ErrUnexpectedStatus}
	}

	body, err := io.ReadAll(io.LimitReader(raw, s.maxBody))
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: res.StatusCode(), Err: err}
	}
	if len(body) == 0 {
		return nil, &FetchError{URL: url, StatusCode: res.StatusCode(), Err: ErrEmptyBody}
	}

	logger.Debug("fetched page", logger.Fields{
		"url":      url,
		"bytes":    len(body),
		"duration": time.Since(start).String(),
	})
	return body, nil
}
