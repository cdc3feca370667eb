// Package http provides the HTTP plumbing for the traceview fetch layer.
package http

import (
	"context"
	"net/url"
)

// Doer is the read-only request interface the API sub-clients depend on.
// It decouples them from the concrete client and enables dependency
// injection in tests.
type Doer interface {
	// Get performs an HTTP GET request and decodes the JSON response
	// into result.
	Get(ctx context.Context, path string, query url.Values, result any) error
}
