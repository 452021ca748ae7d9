// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/metrics"
	"github.com/G-Villarinho/book-wise/internal/models"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

// Config configures a Client.
type Config struct {
	// BaseURL of the API, including the version prefix (http://localhost:8080/v1).
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// CookieName is the API's session cookie. The token is sent both as this
	// cookie and as a bearer Authorization header.
	CookieName string

	// RequestsPerSecond and Burst bound outbound traffic. Zero disables the
	// limiter.
	RequestsPerSecond float64
	Burst             int

	Breaker BreakerConfig

	// HTTPClient overrides the transport; tests point it at httptest servers.
	HTTPClient *http.Client
}

// Client talks to the Book Wise REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	cookieName string
	userAgent  string

	http       *http.Client
	noRedirect *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*response]
	tracer  trace.Tracer
	log     zerolog.Logger
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

type request struct {
	endpoint    string // method plus route template, used for metrics and spans
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	token       string
	noRedirect  bool
}

// New creates an API client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("apiclient: invalid base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "book-wise-session"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "book-wise-web"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	noRedirect := *httpClient
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    base,
		cookieName: cfg.CookieName,
		userAgent:  cfg.UserAgent,
		http:       httpClient,
		noRedirect: &noRedirect,
		limiter:    limiter,
		breaker:    newBreaker("bookwise-api", cfg.Breaker),
		tracer:     otel.Tracer("github.com/G-Villarinho/book-wise/internal/apiclient"),
		log:        logging.WithComponent("apiclient"),
	}, nil
}

// CookieName returns the API session cookie name.
func (c *Client) CookieName() string {
	return c.cookieName
}

// do sends req through the limiter and the circuit breaker.
func (c *Client) do(ctx context.Context, req *request) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("apiclient: %s: rate limiter: %w", req.endpoint, err)
	}

	ctx, span := c.tracer.Start(ctx, req.endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*response, error) {
		return c.roundTrip(ctx, req)
	})
	duration := time.Since(start)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues("bookwise-api", "rejected").Inc()
		err = fmt.Errorf("%w: %s: %w", ErrNetwork, req.endpoint, err)
	} else if err != nil && IsRetryable(err) {
		metrics.CircuitBreakerRequests.WithLabelValues("bookwise-api", "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues("bookwise-api").Set(float64(c.breaker.Counts().ConsecutiveFailures))
	} else {
		metrics.CircuitBreakerRequests.WithLabelValues("bookwise-api", "success").Inc()
	}

	status := 0
	var apiErr *Error
	switch {
	case resp != nil:
		status = resp.status
	case errors.As(err, &apiErr):
		status = apiErr.Status
	}
	metrics.RecordUpstreamRequest(req.endpoint, status, duration)
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l := logging.CtxWith(ctx).Str("component", "apiclient").Logger()
		l.Warn().
			Err(err).
			Str("endpoint", req.endpoint).
			Int("status", status).
			Dur("duration", duration).
			Msg("API request failed")
		return nil, err
	}

	c.log.Debug().
		Str("endpoint", req.endpoint).
		Str("path", req.path).
		Int("status", status).
		Dur("duration", duration).
		Msg("API request")
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, req *request) (*response, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	body := req.body
	if body == nil {
		body = http.NoBody
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
		httpReq.AddCookie(&http.Cookie{Name: c.cookieName, Value: req.token})
	}

	client := c.http
	if req.noRedirect {
		client = c.noRedirect
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("apiclient: %s: %w", req.endpoint, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, req.endpoint, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", ErrNetwork, req.endpoint, err)
	}

	ok := httpResp.StatusCode < 300 || (req.noRedirect && httpResp.StatusCode < 400)
	if !ok {
		return nil, newError(httpResp.StatusCode, data)
	}

	return &response{
		status:  httpResp.StatusCode,
		body:    data,
		cookies: httpResp.Cookies(),
	}, nil
}

func newError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var payload models.ErrorPayload
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		e.Code = payload.Code
		e.Message = payload.Message
		e.Details = payload.Details
	}
	return e
}

func decode[T any](resp *response, endpoint string) (*T, error) {
	var out T
	if len(resp.body) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("apiclient: decode %s: %w", endpoint, err)
	}
	return &out, nil
}

// getJSON performs a GET and decodes the body into T.
func getJSON[T any](ctx context.Context, c *Client, token, endpoint, path string, query url.Values) (*T, error) {
	resp, err := c.do(ctx, &request{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     path,
		query:    query,
		token:    token,
	})
	if err != nil {
		return nil, err
	}
	return decode[T](resp, endpoint)
}

// send performs a write with an optional JSON body and discards the response.
func (c *Client) send(ctx context.Context, token, endpoint, method, path string, payload interface{}) error {
	req := &request{
		endpoint: endpoint,
		method:   method,
		path:     path,
		token:    token,
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s: %w", endpoint, err)
		}
		req.body = bytes.NewReader(b)
		req.contentType = "application/json"
	}
	_, err := c.do(ctx, req)
	return err
}

// params builds query values, skipping empty strings and non-positive ints.
type params url.Values

func (p params) str(key, value string) params {
	if value != "" {
		url.Values(p).Set(key, value)
	}
	return p
}

func (p params) num(key string, value int) params {
	if value > 0 {
		url.Values(p).Set(key, itoa(value))
	}
	return p
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
