// Package dashboard holds the client side of the dashboard: an HTTP client for
// the data endpoint and the view state the filter panel and charts read.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"insights-dashboard/internal/filter"
	"insights-dashboard/internal/model"
)

const defaultTimeout = 30 * time.Second

// FetchError is a non-200 answer from the data endpoint
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("data request failed with status %d", e.Status)
	}
	return fmt.Sprintf("data request failed with status %d: %s", e.Status, e.Message)
}

// Client talks to the dashboard HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL. A nil hc gets a client
// with a default timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Fetch requests the records matching sel
func (c *Client) Fetch(ctx context.Context, sel model.Selection) ([]model.Record, error) {
	u := c.baseURL + "/data"
	if q := filter.Encode(sel).Encode(); q != "" {
		u += "?" + q
	}

	var records []model.Record
	if err := c.getJSON(ctx, u, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

// Options requests the filter options for the whole dataset
func (c *Client) Options(ctx context.Context) (map[model.Field][]string, error) {
	var opts map[model.Field][]string
	if err := c.getJSON(ctx, c.baseURL+"/data/options", &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeFetchError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeFetchError(resp *http.Response) error {
	fe := &FetchError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		fe.Message = payload.Error
	}
	return fe
}
