// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"

	"github.com/pdiddy/compound-etl/pkg/types"
)

// DefaultTimeout bounds a single request when the configuration does
// not set one.
const DefaultTimeout = 30 * time.Second

// NewClient returns an HTTP client honoring cfg.Timeout. The pipeline
// makes exactly one attempt per request; there is no retry or backoff
// layer, so a failed call surfaces to the caller immediately.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
