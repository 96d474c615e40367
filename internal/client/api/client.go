package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/sportconnect/internal/client/metrics"
	"github.com/iudanet/sportconnect/internal/client/storage"
)

const (
	// DefaultBaseURL используется, если адрес API не сконфигурирован
	DefaultBaseURL = "http://localhost:8000/api/"
	// DefaultTimeout ограничивает один HTTP запрос
	DefaultTimeout = 15 * time.Second

	// maxResponseBody защищает от неограниченного чтения тела ответа
	maxResponseBody = 4 << 20
)

// TokenStore is the subset of the token store the client needs.
type TokenStore interface {
	Get(kind storage.TokenKind) string
	Set(creds storage.Credentials)
	Clear()
}

// Client представляет HTTP клиент для взаимодействия с API.
// Every authenticated request carries the stored access token; a 401 triggers one
// transparent refresh-and-retry cycle shared with all concurrently failing requests.
type Client struct {
	httpClient   *http.Client
	tokens       TokenStore
	refresher    *Refresher
	logger       *slog.Logger
	metrics      *metrics.Metrics
	bearer       RequestInterceptor
	baseURL      string
	interceptors []RequestInterceptor
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client. Its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables Prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithInterceptors appends request interceptors run after the built-in ones.
func WithInterceptors(interceptors ...RequestInterceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, interceptors...)
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		logger:  slog.New(slog.DiscardHandler),
		// Политика редиректов по умолчанию: Authorization не уходит на чужой хост
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		interceptors: []RequestInterceptor{
			RequestIDInterceptor(),
			UserAgentInterceptor(defaultUserAgent),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.bearer = BearerInterceptor(tokens)
	c.refresher = NewRefresher(tokens, c.refreshCredentials,
		WithRefreshLogger(c.logger),
		WithRefreshMetrics(c.metrics),
	)

	return c
}

// BaseURL returns the normalized base URL (always ends with "/").
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Refresher returns the coordinator shared by every request of this client.
func (c *Client) Refresher() *Refresher {
	return c.refresher
}

// do выполняет запрос через цепочку интерсепторов и обрабатывает 401
func (c *Client) do(ctx context.Context, req *request, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	err = decodeResponse(req, resp, out)
	if err == nil {
		return nil
	}

	var respErr *ResponseError
	if !errors.As(err, &respErr) || respErr.StatusCode != http.StatusUnauthorized || req.anonymous {
		return err
	}

	return c.handleUnauthorized(ctx, req, out, respErr)
}

// handleUnauthorized обновляет access token и повторяет запрос не более одного раза
func (c *Client) handleUnauthorized(ctx context.Context, req *request, out any, respErr *ResponseError) error {
	// Повторный 401 после обновления: токены больше не помогут
	if req.retried {
		c.logger.Warn("request rejected after token refresh", "method", req.method, "path", req.path)
		c.tokens.Clear()
		return &AuthError{Response: respErr}
	}

	access, err := c.refresher.Renew(ctx)
	if err != nil {
		// Отмена вызывающим не означает, что сессия невалидна
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("token refresh failed, clearing credentials", "error", err)
		c.tokens.Clear()
		return &AuthError{Response: respErr, Cause: err}
	}

	return c.do(ctx, req.retry(access), out)
}

// send собирает http.Request, прогоняет интерсепторы и выполняет его
func (c *Client) send(ctx context.Context, req *request) (*http.Response, error) {
	target, err := c.resolve(req.path)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if req.body != nil {
		bodyReader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.bearer != "" {
		setBearer(httpReq, req.bearer)
	}

	if !req.anonymous {
		if err := c.bearer(httpReq); err != nil {
			return nil, fmt.Errorf("bearer interceptor: %w", err)
		}
	}
	for _, intercept := range c.interceptors {
		if err := intercept(httpReq); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.method, 0)
		c.logger.Debug("API request failed", "method", req.method, "path", req.path, "error", err)
		return nil, &NetworkError{Method: req.method, URL: target, Err: err}
	}

	c.metrics.ObserveRequest(req.method, resp.StatusCode)
	c.logger.Debug("API request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"retried", req.retried,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp, nil
}

// resolve строит абсолютный URL из пути API. Абсолютный URL допускается только
// внутри baseURL, иначе токен ушёл бы на чужой хост.
func (c *Client) resolve(path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid API path %q: %w", path, err)
	}
	if u.IsAbs() || u.Host != "" {
		if strings.HasPrefix(path, c.baseURL) {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrForeignURL, path)
	}
	return c.baseURL + strings.TrimLeft(path, "/"), nil
}

// decodeResponse читает тело ответа и декодирует его в out при успешном статусе
func decodeResponse(req *request, resp *http.Response, out any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &NetworkError{Method: req.method, URL: resp.Request.URL.String(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newResponseError(resp.StatusCode, body)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
