// Package virustotal implements the core.ReputationClient interface
// against the VirusTotal v3 URL endpoints.
package virustotal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/core"
)

// DefaultBaseURL is the production VirusTotal v3 API root.
const DefaultBaseURL = "https://www.virustotal.com/api/v3"

// Client talks to the VirusTotal URL reputation API. A single client is
// shared across requests; it holds no mutable state beyond the
// http.Client's connection pool.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// urlReport is the subset of the VirusTotal URL object we consume.
type urlReport struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats map[string]int `json:"last_analysis_stats"`
		} `json:"attributes"`
	} `json:"data"`
}

// NewClient creates a new VirusTotal client.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// urlID converts a URL to the identifier VirusTotal expects:
// unpadded URL-safe base64 of the canonical URL string.
func urlID(target string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(target))
}

// Lookup fetches the latest vendor analysis counts for a URL.
// Returns core-level not-found semantics via ErrNotFound when
// VirusTotal has never analyzed the URL.
func (c *Client) Lookup(ctx context.Context, target string) (map[string]int, error) {
	endpoint := fmt.Sprintf("%s/urls/%s", c.baseURL, urlID(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reputation lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decoding.
	case http.StatusNotFound:
		return nil, core.ErrNotFound
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("reputation service rate limit exceeded")
	default:
		return nil, fmt.Errorf("reputation service returned %s", resp.Status)
	}

	var report urlReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode reputation report: %w", err)
	}

	stats := report.Data.Attributes.LastAnalysisStats
	if stats == nil {
		stats = map[string]int{}
	}
	c.logger.Debug("VirusTotal lookup complete",
		zap.String("url", target),
		zap.Int("malicious", stats["malicious"]),
		zap.Int("suspicious", stats["suspicious"]))
	return stats, nil
}

// Submit queues a URL for analysis. VirusTotal gives no guarantee the
// analysis completes within any particular window.
func (c *Client) Submit(ctx context.Context, target string) error {
	form := url.Values{}
	form.Set("url", target)

	endpoint := c.baseURL + "/urls"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reputation submission failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reputation submission returned %s", resp.Status)
	}

	c.logger.Debug("URL submitted for analysis", zap.String("url", target))
	return nil
}
