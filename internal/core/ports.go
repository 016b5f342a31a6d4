package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a ReputationClient when the service has no
// verdict for the URL yet.
var ErrNotFound = errors.New("url not known to reputation service")

// ErrCacheMiss is returned by a ReputationCache when no live entry
// exists for the URL.
var ErrCacheMiss = errors.New("no cached reputation entry")

// ReputationClient defines the interface for the URL reputation service.
type ReputationClient interface {
	// Lookup fetches the vendor verdict counts for a URL.
	// Returns ErrNotFound when the service has never analyzed the URL.
	Lookup(ctx context.Context, url string) (map[string]int, error)

	// Submit queues a URL for analysis. Completion within any
	// particular window is not guaranteed.
	Submit(ctx context.Context, url string) error
}

// NarrativeClient defines the interface for the narrative-generation
// service. The reply is untrusted free-form text.
type NarrativeClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReputationCache caches upstream reputation responses by URL.
type ReputationCache interface {
	// Get retrieves cached verdict counts, or ErrCacheMiss.
	Get(ctx context.Context, url string) (map[string]int, error)

	// Set stores verdict counts for a URL.
	Set(ctx context.Context, url string, stats map[string]int) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}
