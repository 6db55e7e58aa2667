package decidematesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal DecideMate HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Decision represents the API decision model.
type Decision struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category"`
	ConfidenceLevel int      `json:"confidenceLevel"`
	ExpectedOutcome string   `json:"expectedOutcome,omitempty"`
	ReviewDate      string   `json:"reviewDate"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
	IsArchived      bool     `json:"isArchived"`
	Tags            []string `json:"tags"`
	Outcome         *Outcome `json:"outcome,omitempty"`
}

// Outcome represents a recorded review.
type Outcome struct {
	Description    string `json:"description"`
	Rating         int    `json:"rating"`
	LessonsLearned string `json:"lessonsLearned,omitempty"`
	ReviewedAt     string `json:"reviewedAt"`
}

// OverallStats mirrors the aggregate statistics payload.
type OverallStats struct {
	TotalDecisions        int     `json:"totalDecisions"`
	ReviewedDecisions     int     `json:"reviewedDecisions"`
	PendingDecisions      int     `json:"pendingDecisions"`
	AverageConfidence     float64 `json:"averageConfidence"`
	AverageOutcome        float64 `json:"averageOutcome"`
	ConfidenceCalibration float64 `json:"confidenceCalibration"`
	ReviewCompletionRate  float64 `json:"reviewCompletionRate"`
}

// CategoryStats mirrors per-category statistics.
type CategoryStats struct {
	Category          string  `json:"category"`
	Count             int     `json:"count"`
	AverageConfidence float64 `json:"averageConfidence"`
	AverageOutcome    float64 `json:"averageOutcome"`
	SuccessRate       float64 `json:"successRate"`
}

// Premium mirrors the premium status payload.
type Premium struct {
	Premium       bool `json:"premium"`
	FreeTierLimit int  `json:"freeTierLimit"`
	CanCreate     bool `json:"canCreate"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateDecision records a new decision.
func (c *Client) CreateDecision(ctx context.Context, title, category string, confidence int, expected string, reviewDate time.Time) (Decision, error) {
	body := map[string]any{
		"title":           title,
		"category":        category,
		"confidenceLevel": confidence,
		"expectedOutcome": expected,
		"reviewDate":      reviewDate.Format(time.RFC3339),
	}
	var resp Decision
	err := c.do(ctx, http.MethodPost, "decisions", body, &resp)
	return resp, err
}

// ListDecisions returns decisions matching a filter (all, pending, reviewed, archived).
func (c *Client) ListDecisions(ctx context.Context, filter string) ([]Decision, error) {
	endpoint := "decisions"
	if filter != "" {
		endpoint += "?filter=" + url.QueryEscape(filter)
	}
	var resp []Decision
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// GetDecision fetches a decision by id.
func (c *Client) GetDecision(ctx context.Context, id string) (Decision, error) {
	var resp Decision
	err := c.do(ctx, http.MethodGet, "decisions/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// UpdateDecision applies a partial update; only the supplied fields change.
func (c *Client) UpdateDecision(ctx context.Context, id string, fields map[string]any) (Decision, error) {
	var resp Decision
	err := c.do(ctx, http.MethodPatch, "decisions/"+url.PathEscape(id), fields, &resp)
	return resp, err
}

// DeleteDecision removes a decision permanently.
func (c *Client) DeleteDecision(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "decisions/"+url.PathEscape(id), nil, nil)
}

// AddOutcome records the realized outcome of a decision. Calling it again
// replaces the earlier outcome.
func (c *Client) AddOutcome(ctx context.Context, id, description string, rating int, lessons string) (Decision, error) {
	body := map[string]any{
		"description":    description,
		"rating":         rating,
		"lessonsLearned": lessons,
	}
	var resp Decision
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("decisions/%s/outcome", url.PathEscape(id)), body, &resp)
	return resp, err
}

// Archive hides a decision from views and statistics.
func (c *Client) Archive(ctx context.Context, id string) (Decision, error) {
	var resp Decision
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("decisions/%s/archive", url.PathEscape(id)), nil, &resp)
	return resp, err
}

// Unarchive restores an archived decision.
func (c *Client) Unarchive(ctx context.Context, id string) (Decision, error) {
	var resp Decision
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("decisions/%s/unarchive", url.PathEscape(id)), nil, &resp)
	return resp, err
}

// DueForReview returns pending decisions whose review date has arrived.
func (c *Client) DueForReview(ctx context.Context) ([]Decision, error) {
	var resp []Decision
	err := c.do(ctx, http.MethodGet, "decisions/due", nil, &resp)
	return resp, err
}

// Stats returns aggregate statistics.
func (c *Client) Stats(ctx context.Context) (OverallStats, error) {
	var resp OverallStats
	err := c.do(ctx, http.MethodGet, "stats", nil, &resp)
	return resp, err
}

// CategoryBreakdown returns per-category statistics.
func (c *Client) CategoryBreakdown(ctx context.Context) ([]CategoryStats, error) {
	var resp []CategoryStats
	err := c.do(ctx, http.MethodGet, "stats/categories", nil, &resp)
	return resp, err
}

// Insights returns heuristic insight strings.
func (c *Client) Insights(ctx context.Context) ([]string, error) {
	var resp struct {
		Insights []string `json:"insights"`
	}
	err := c.do(ctx, http.MethodGet, "insights", nil, &resp)
	return resp.Insights, err
}

// Export returns the journal as a raw JSON document.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	return c.raw(ctx, http.MethodGet, "export", nil)
}

// Import merges a previously exported journal and returns how many
// decisions were added.
func (c *Client) Import(ctx context.Context, data []byte) (int, error) {
	b, err := c.raw(ctx, http.MethodPost, "import", data)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Added int `json:"added"`
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return 0, err
	}
	return resp.Added, nil
}

// PremiumStatus returns the premium flag and free-tier headroom.
func (c *Client) PremiumStatus(ctx context.Context) (Premium, error) {
	var resp Premium
	err := c.do(ctx, http.MethodGet, "premium", nil, &resp)
	return resp, err
}

// SetPremium toggles premium status.
func (c *Client) SetPremium(ctx context.Context, premium bool) (Premium, error) {
	var resp Premium
	err := c.do(ctx, http.MethodPut, "premium", map[string]any{"premium": premium}, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	b, err := c.request(ctx, method, endpoint, &buf, "application/json")
	if err != nil {
		return err
	}
	if out != nil && len(b) > 0 {
		return json.Unmarshal(b, out)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	return c.request(ctx, method, endpoint, bytes.NewReader(body), "application/json")
}

func (c *Client) request(ctx context.Context, method, endpoint string, body io.Reader, contentType string) ([]byte, error) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/v1/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return b, nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
