package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/elonfeng/techcast/pkg/trend"
)

// DefaultAnalyticsURL is the endpoint exposed by the analytics backend.
const DefaultAnalyticsURL = "http://127.0.0.1:5000/api/bq"

// Analytics fetches precomputed trends from the remote analytics service.
type Analytics struct {
	client *http.Client
	url    string
}

// NewAnalytics creates an analytics source for url.
func NewAnalytics(url string) *Analytics {
	if url == "" {
		url = DefaultAnalyticsURL
	}
	return &Analytics{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
	}
}

func (a *Analytics) Name() Kind { return KindAnalytics }

func (a *Analytics) Fetch(ctx context.Context) ([]trend.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create analytics request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "techcast/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trends: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics status %d", resp.StatusCode)
	}

	return Decode(resp.Body)
}
