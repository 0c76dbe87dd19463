// Package searchad calls a SearchAd-style keyword metrics API and exposes
// it as an enrichment oracle.
package searchad

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tidewave/keytier/pkg/keytier/oracle"
)

const keywordsPath = "/keywordstool"

// Client calls the keyword metrics endpoint. The zero HTTPClient falls back
// to a 15 second timeout client.
type Client struct {
	BaseURL    string
	APIKey     string
	SecretKey  string // HMAC signing key
	CustomerID string

	HTTPClient *http.Client
}

type keywordsRequest struct {
	Keywords []string `json:"keywords"`
}

type keywordsResponse struct {
	Keywords []struct {
		Text        string  `json:"text"`
		Volume      float64 `json:"volume"`
		Competition float64 `json:"competition"`
		AdDepth     float64 `json:"ad_depth"`
		CPC         float64 `json:"cpc"`
		Rank        int     `json:"rank"`
	} `json:"keywords"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// BulkMetrics implements oracle.Oracle. Keywords the API has no data for
// are absent from the result.
func (c *Client) BulkMetrics(ctx context.Context, texts []string) (map[string]oracle.Metrics, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("searchad: base URL required")
	}

	payload, err := c.send(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make(map[string]oracle.Metrics, len(payload.Keywords))
	for _, k := range payload.Keywords {
		out[k.Text] = oracle.Metrics{
			Volume:      k.Volume,
			Competition: k.Competition,
			AdDepth:     k.AdDepth,
			CPC:         k.CPC,
			Rank:        k.Rank,
		}
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, texts []string) (*keywordsResponse, error) {
	reqBody, err := json.Marshal(keywordsRequest{Keywords: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+keywordsPath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Set("X-Timestamp", timestamp)
	if c.APIKey != "" {
		req.Header.Set("X-API-KEY", c.APIKey)
	}
	if c.CustomerID != "" {
		req.Header.Set("X-Customer", c.CustomerID)
	}
	if c.SecretKey != "" {
		req.Header.Set("X-Signature", sign(c.SecretKey, timestamp, http.MethodPost, keywordsPath))
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload keywordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("searchad error: %s", payload.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searchad: status %d", resp.StatusCode)
	}
	return &payload, nil
}

// sign computes the request signature the ad API requires:
// base64(HMAC-SHA256(secret, "timestamp.method.path")).
func sign(secret, timestamp, method, path string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s.%s", timestamp, method, path)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
