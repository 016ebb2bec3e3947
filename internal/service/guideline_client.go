package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GuidelineClient wraps the Clare clinical-guidelines API. Lookups are
// enrichment only: every method degrades to a nil result on upstream
// failure so scenario workflows never block on Clare.
type GuidelineClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGuidelineClient creates a new Clare API client
func NewGuidelineClient(baseURL, apiKey string) *GuidelineClient {
	return &GuidelineClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Guideline is one clinical guideline record from Clare.
type Guideline struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Condition string `json:"condition"`
	Summary   string `json:"summary"`
	URL       string `json:"url"`
}

// FetchGuideline retrieves one guideline by ID. Returns nil on any
// upstream failure.
func (c *GuidelineClient) FetchGuideline(ctx context.Context, guidelineID string) (*Guideline, error) {
	endpoint := fmt.Sprintf("%s/guidelines/%s", c.baseURL, url.PathEscape(guidelineID))

	var guideline Guideline
	if err := c.getJSON(ctx, endpoint, &guideline); err != nil {
		return nil, fmt.Errorf("%w: clare guideline %s: %v", ErrUpstreamFailed, guidelineID, err)
	}
	return &guideline, nil
}

// SearchByCondition finds guidelines matching a condition name.
func (c *GuidelineClient) SearchByCondition(ctx context.Context, condition string, limit int) ([]Guideline, error) {
	endpoint := fmt.Sprintf("%s/guidelines/search?condition=%s&limit=%d",
		c.baseURL, url.QueryEscape(condition), limit)

	var result struct {
		Guidelines []Guideline `json:"guidelines"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("%w: clare search %q: %v", ErrUpstreamFailed, condition, err)
	}
	return result.Guidelines, nil
}

func (c *GuidelineClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
