// Package ipinfo implements the bulk-lookup collaborator against the
// ipinfo.io batch endpoint.
package ipinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/smallbiznis/geotally/internal/config"
	"github.com/smallbiznis/geotally/internal/enrich/domain"
)

const defaultBaseURL = "https://ipinfo.io"

// requestTimeout bounds each batch call; a timed-out batch resolves
// nothing and its addresses are retried on the next pass.
const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Provide builds the production resolver from configuration.
func Provide(cfg config.Config) domain.Resolver {
	return New(defaultBaseURL, cfg.IPInfoToken)
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// ResolveBatch posts the batch as a JSON array and decodes the per-IP
// map. Values are heterogeneous upstream: a detail object for a known
// address, a bare string or error object otherwise. Anything that does
// not decode as a detail object is reported through LookupResult.Err.
func (c *Client) ResolveBatch(ctx context.Context, ips []string) (map[string]domain.LookupResult, error) {
	body, err := json.Marshal(ips)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/batch?token=%s", c.baseURL, url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ipinfo batch: status %d: %s", resp.StatusCode, snippet)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("ipinfo batch: decode response: %w", err)
	}

	results := make(map[string]domain.LookupResult, len(raw))
	for ip, value := range raw {
		var loc domain.Location
		if err := json.Unmarshal(value, &loc); err != nil {
			results[ip] = domain.LookupResult{Err: string(value)}
			continue
		}
		results[ip] = domain.LookupResult{Location: loc}
	}
	return results, nil
}
