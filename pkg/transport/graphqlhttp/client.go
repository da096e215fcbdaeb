// Package graphqlhttp is a minimal GraphQL-over-HTTP client. It executes
// mutations for the form engine and answers introspection, so one Client can
// serve as both the live schema source and the transport.
package graphqlhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/introspection"
	"github.com/goliatone/go-frontier/pkg/schema"
	"github.com/goliatone/go-frontier/pkg/transport"
)

const maxResponseBytes = 5 << 20

var errEmptyEndpoint = errors.New("graphqlhttp: endpoint is required")

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithHeader adds a header to every request, e.g. Authorization.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithTimeout bounds each request when the caller's context has no deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to a single GraphQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	headers  http.Header
	timeout  time.Duration
	logger   *zap.Logger
}

var (
	_ transport.Transport  = (*Client)(nil)
	_ introspection.Client = (*Client)(nil)
)

// New constructs a Client for endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errEmptyEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		headers:  make(http.Header),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type requestBody struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type responseBody struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Execute implements transport.Transport.
func (c *Client) Execute(ctx context.Context, req transport.Request) (transport.Response, error) {
	if req.Descriptor == nil {
		return transport.Response{}, errors.New("graphqlhttp: request has no descriptor")
	}
	body := requestBody{
		Query:     req.Descriptor.Document(),
		Variables: req.Variables,
	}
	if req.Descriptor.Name != "" {
		body.OperationName = req.Descriptor.Name
	}

	raw, err := c.do(ctx, body)
	if err != nil {
		return transport.Response{}, err
	}
	var data map[string]any
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()
		if err := decoder.Decode(&data); err != nil {
			return transport.Response{}, fmt.Errorf("graphqlhttp: decode data: %w", err)
		}
	}
	return transport.Response{Data: data}, nil
}

// Introspect implements introspection.Client.
func (c *Client) Introspect(ctx context.Context) (schema.SchemaIR, error) {
	raw, err := c.do(ctx, requestBody{Query: introspection.Query, OperationName: "IntrospectionQuery"})
	if err != nil {
		return schema.SchemaIR{}, err
	}
	ir, err := introspection.Parse(raw)
	if err != nil {
		return schema.SchemaIR{}, fmt.Errorf("graphqlhttp: %w", err)
	}
	return ir, nil
}

// do posts body and returns the raw data member. GraphQL errors take
// precedence over partial data.
func (c *Client) do(ctx context.Context, body requestBody) (json.RawMessage, error) {
	if c.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("graphqlhttp: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("graphqlhttp: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, values := range c.headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("graphql request failed",
			zap.String("operation", body.OperationName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("graphqlhttp: post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("graphqlhttp: read response: %w", err)
	}
	c.logger.Debug("graphql request",
		zap.String("operation", body.OperationName),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	var decoded responseBody
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: snippet(raw)}
		if decodeErr == nil && len(decoded.Errors) > 0 {
			statusErr.Errors = decoded.Errors
		}
		return nil, statusErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("graphqlhttp: decode response: %w", decodeErr)
	}
	if len(decoded.Errors) > 0 {
		return nil, &ResponseError{Errors: decoded.Errors, Data: decoded.Data}
	}
	return decoded.Data, nil
}

func snippet(raw []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
