package uniswap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/jatsharma/stackera-project/internal/adapters/metrics"
	"github.com/jatsharma/stackera-project/internal/domain"
)

var (
	ErrInvalidQuery      = errors.New("invalid graphql query")
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// StatusError is returned for any non-200 upstream answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("uniswap subgraph error: status %d, body: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrUpstreamFailure
}

// GraphQLError is one entry of the response "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Limiter gates outbound requests.
type Limiter interface {
	Wait(ctx context.Context) error
}

type Client struct {
	client   *http.Client
	endpoint string
	metrics  *metrics.Metrics
	limiter  Limiter
}

// NewClient talks to a single subgraph endpoint. The http.Client timeout bounds every call.
func NewClient(client *http.Client, endpoint string, m *metrics.Metrics) *Client {
	return &Client{client: client, endpoint: endpoint, metrics: m}
}

// SetLimiter makes every request wait for a slot first. nil disables throttling.
func (c *Client) SetLimiter(l Limiter) {
	c.limiter = l
}

// Query sends the document and returns the 200 response body unchanged.
func (c *Client) Query(ctx context.Context, operation, query string) ([]byte, error) {
	if _, err := parser.ParseQuery(&ast.Source{Input: query}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.ObserveUpstream(operation, "throttled", 0)
			return nil, fmt.Errorf("%w: %s throttled: %v", domain.ErrUpstreamFailure, operation, err)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(operation, "error", time.Since(start))
		return nil, fmt.Errorf("%w: %s request: %v", domain.ErrUpstreamFailure, operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveUpstream(operation, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", domain.ErrUpstreamFailure, operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	return body, nil
}

// Decode runs Query and unmarshals the data member into out.
// A non-empty errors array is an upstream failure; a missing or undecodable
// data member is ErrMalformedResponse.
func (c *Client) Decode(ctx context.Context, operation, query string, out interface{}) error {
	body, err := c.Query(ctx, operation, query)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: %s: %s", domain.ErrUpstreamFailure, operation, strings.Join(msgs, "; "))
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: %s: no data", ErrMalformedResponse, operation)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, operation, err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
