package uniprot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/aria-lang/isoflow-go/internal/config"
	"github.com/aria-lang/isoflow-go/internal/metrics"
)

var accessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// InvalidAccessionError reports an identifier that cannot name a UniProt entry.
type InvalidAccessionError struct {
	Accession string
}

func (e *InvalidAccessionError) Error() string {
	return fmt.Sprintf("invalid accession %q", e.Accession)
}

// NotFoundError reports an accession unknown to UniProt.
type NotFoundError struct {
	Accession string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("uniprot entry %s not found", e.Accession)
}

// StatusError reports an unexpected HTTP status from UniProt.
type StatusError struct {
	Accession  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Accession, e.StatusCode)
}

// ValidateAccession checks that id is safe to use in a URL and a file name.
func ValidateAccession(id string) error {
	if !accessionPattern.MatchString(id) {
		return &InvalidAccessionError{Accession: id}
	}
	return nil
}

// Client downloads RDF documents from the UniProt REST service.
type Client struct {
	baseURL       string
	http          *http.Client
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	logger        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout is kept as is.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// NewClient creates a Client from UniProt settings.
func NewClient(cfg config.UniProtConfig, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL(), "/"),
		http:          &http.Client{Timeout: cfg.Timeout()},
		maxRetries:    cfg.MaxRetries(),
		initialDelay:  cfg.InitialDelay(),
		backoffFactor: cfg.BackoffFactor(),
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the document location for an accession.
func (c *Client) URL(accession string) string {
	return c.baseURL + "/" + accession + ".rdf"
}

// Fetch downloads the RDF document for accession, retrying transient
// failures with exponential backoff.
func (c *Client) Fetch(ctx context.Context, accession string) ([]byte, error) {
	if err := ValidateAccession(accession); err != nil {
		return nil, err
	}

	var body []byte
	err := c.withRetry(ctx, accession, func() error {
		var err error
		body, err = c.get(ctx, accession)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, accession string) ([]byte, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.FetchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(accession), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/rdf+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", accession, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		status = "not_found"
		return nil, &NotFoundError{Accession: accession}
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{Accession: accession, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", accession, err)
	}
	status = "ok"
	return body, nil
}

func (c *Client) withRetry(ctx context.Context, accession string, fn func() error) error {
	delay := c.initialDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < c.maxRetries {
			metrics.FetchRetries.Inc()
			c.logger.Warn("retrying uniprot fetch",
				"accession", accession,
				"attempt", attempt+1,
				"delay", delay,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * c.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
