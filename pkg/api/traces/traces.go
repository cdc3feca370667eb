// Package traces provides the read-only traces API client.
package traces

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jdziat/traceview-go/pkg/http"
	"github.com/jdziat/traceview-go/pkg/types"
)

// Endpoint for the traces API.
const Endpoint = "/traces"

// Client handles trace-related API operations.
type Client struct {
	http http.Doer
}

// New creates a new traces client with the given HTTP doer.
func New(doer http.Doer) *Client {
	return &Client{http: doer}
}

// ListResponse is the paginated trace list payload.
type ListResponse struct {
	Data []*types.Trace    `json:"data"`
	Meta http.MetaResponse `json:"meta"`
}

// List retrieves a page of traces.
func (c *Client) List(ctx context.Context, query url.Values) (*ListResponse, error) {
	var resp ListResponse
	if err := c.http.Get(ctx, Endpoint, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get retrieves a single trace by ID.
func (c *Client) Get(ctx context.Context, traceID string) (*types.Trace, error) {
	var trace types.Trace
	if err := c.http.Get(ctx, fmt.Sprintf("%s/%s", Endpoint, url.PathEscape(traceID)), nil, &trace); err != nil {
		return nil, err
	}
	return &trace, nil
}
