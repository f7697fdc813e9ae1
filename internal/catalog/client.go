package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source delivers the raw event catalog from somewhere upstream.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// FeedClient pulls the catalog from a JSON feed. The feed is an array of
// loosely-typed objects; Parse turns them into calendar events.
type FeedClient struct {
	httpClient *http.Client
	url        string
}

func NewFeedClient(url string, timeout time.Duration) *FeedClient {
	return &FeedClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

func (c *FeedClient) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode catalog feed: %w", err)
	}
	return records, nil
}
