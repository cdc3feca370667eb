package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/jdziat/traceview-go/pkg/api/observations"
	"github.com/jdziat/traceview-go/pkg/api/traces"
	"github.com/jdziat/traceview-go/pkg/config"
	tvhttp "github.com/jdziat/traceview-go/pkg/http"
	"github.com/jdziat/traceview-go/pkg/types"
)

// Bundle is the on-disk exchange format: one trace and its flat
// observation collection.
type Bundle struct {
	Trace        *types.Trace         `json:"trace,omitempty"`
	Observations []*types.Observation `json:"observations"`
}

// readBundle loads a bundle from a file, or stdin when path is "-".
func readBundle(path string) (*Bundle, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	return &b, nil
}

// fetchBundle retrieves a trace and all its observations from the API.
func fetchBundle(ctx context.Context, traceID string) (*Bundle, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	client := tvhttp.NewClient(cfg.BaseURL, cfg.PublicKey, cfg.SecretKey,
		tvhttp.WithMaxRetries(cfg.MaxRetries),
		tvhttp.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))

	log.WithField("traceId", traceID).Debug("fetching trace")
	trace, err := traces.New(client).Get(ctx, traceID)
	if err != nil {
		return nil, fmt.Errorf("fetching trace %s: %w", traceID, err)
	}
	obs, err := observations.New(client).ListAll(ctx, traceID)
	if err != nil {
		return nil, fmt.Errorf("fetching observations for %s: %w", traceID, err)
	}
	log.WithField("observations", len(obs)).Debug("trace fetched")
	return &Bundle{Trace: trace, Observations: obs}, nil
}

// loadBundle resolves the bundle from --input or --trace-id.
func loadBundle(ctx context.Context, input, traceID string) (*Bundle, error) {
	switch {
	case input != "":
		return readBundle(input)
	case traceID != "":
		return fetchBundle(ctx, traceID)
	default:
		return nil, fmt.Errorf("either --input or --trace-id is required")
	}
}

// writeJSON writes v to a file, or stdout when path is empty or "-".
func writeJSON(path string, v any, pretty bool) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
