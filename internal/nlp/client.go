package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nerrad567/meetingmap/internal/infrastructure/metrics"
)

const (
	// maxErrorBody bounds how much of a failed reply is kept in StatusError.
	maxErrorBody = 512

	// maxResponseBody bounds the size of a reply that will be decoded.
	maxResponseBody = 1 << 20

	defaultTimeout = 10 * time.Second
)

// Config holds the connection settings for the intent service.
type Config struct {
	BaseURL  string
	Version  string
	Token    string
	Timeout  time.Duration
	CacheTTL time.Duration // 0 disables memoisation
}

// Observer receives one call per lookup. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveNLP(outcome string, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveNLP(string, time.Duration) {}

// Client calls the intent service. It is safe for concurrent use.
type Client struct {
	endpoint *url.URL
	version  string
	token    string
	http     *http.Client
	cache    *cache.Cache
	tracer   trace.Tracer
	observer Observer
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid intent service base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		endpoint: base.JoinPath("message"),
		version:  cfg.Version,
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		tracer:   otel.Tracer("meetingmap/nlp"),
		observer: noopObserver{},
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c, nil
}

// SetObserver installs a metrics observer.
func (c *Client) SetObserver(o Observer) {
	if o != nil {
		c.observer = o
	}
}

// Extract returns the entities recognised in q. Surrounding whitespace is
// trimmed before the lookup, so the cache key and the query sent upstream
// are always the same string.
//
// Replies carrying a datetime entity are never cached: the intent service
// resolves relative expressions such as "today" against its own clock, and
// a memoised reply would keep answering with yesterday's date after midnight.
func (c *Client) Extract(ctx context.Context, q string) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "nlp.Extract")
	defer span.End()

	q = strings.TrimSpace(q)
	span.SetAttributes(attribute.Int("nlp.query_length", len(q)))

	if c.cache != nil {
		if cached, ok := c.cache.Get(q); ok {
			span.SetAttributes(attribute.Bool("nlp.cache_hit", true))
			c.observer.ObserveNLP(metrics.OutcomeCacheHit, 0)
			return cached.(*Response), nil
		}
	}

	start := time.Now()
	resp, err := c.fetch(ctx, q)
	if err != nil {
		c.observer.ObserveNLP(metrics.OutcomeError, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "intent extraction failed")
		return nil, err
	}
	c.observer.ObserveNLP(metrics.OutcomeOK, time.Since(start))

	if c.cache != nil && !resp.timeDependent() {
		c.cache.SetDefault(q, resp)
	}
	span.SetAttributes(attribute.Int("nlp.entity_kinds", len(resp.Entities)))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

func (c *Client) fetch(ctx context.Context, q string) (*Response, error) {
	u := *c.endpoint
	params := url.Values{}
	params.Set("v", c.version)
	params.Set("q", q)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling intent service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody)) //nolint:errcheck // Best effort context
		return nil, &StatusError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out Response
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding intent response: %w", err)
	}
	return &out, nil
}
