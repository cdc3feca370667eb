// Package observations provides the read-only observations API client.
package observations

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jdziat/traceview-go/pkg/http"
	"github.com/jdziat/traceview-go/pkg/types"
)

// Endpoint for the observations API.
const Endpoint = "/observations"

// DefaultPageLimit is the page size used when walking a trace's full
// observation set.
const DefaultPageLimit = 100

// MaxPages bounds ListAll so a pathological server cannot make the walk
// unbounded.
const MaxPages = 1000

// Client handles observation-related API operations.
type Client struct {
	http http.Doer
}

// New creates a new observations client with the given HTTP doer.
func New(doer http.Doer) *Client {
	return &Client{http: doer}
}

// ListResponse is the paginated observation list payload.
type ListResponse struct {
	Data []*types.Observation `json:"data"`
	Meta http.MetaResponse    `json:"meta"`
}

// List retrieves a page of observations.
func (c *Client) List(ctx context.Context, query url.Values) (*ListResponse, error) {
	var resp ListResponse
	if err := c.http.Get(ctx, Endpoint, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get retrieves a single observation by ID.
func (c *Client) Get(ctx context.Context, observationID string) (*types.Observation, error) {
	var obs types.Observation
	if err := c.http.Get(ctx, fmt.Sprintf("%s/%s", Endpoint, url.PathEscape(observationID)), nil, &obs); err != nil {
		return nil, err
	}
	return &obs, nil
}

// ListAll walks the paginated listing and returns every observation of
// one trace, in server order. The walk stops after MaxPages pages.
func (c *Client) ListAll(ctx context.Context, traceID string) ([]*types.Observation, error) {
	var all []*types.Observation
	for page := 1; page <= MaxPages; page++ {
		params := http.PaginationParams{Page: page, Limit: DefaultPageLimit}
		query := params.ToQuery()
		query.Set("traceId", traceID)

		resp, err := c.List(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("listing observations page %d: %w", page, err)
		}
		all = append(all, resp.Data...)
		if !resp.Meta.HasMore() || len(resp.Data) == 0 {
			break
		}
	}
	return all, nil
}
