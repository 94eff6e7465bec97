// Package reranker reorders search hits with an external relevance API.
// With no provider configured it degrades to the identity ordering.
package reranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	apiKey   string
	provider string
	client   *http.Client
	baseURL  string
}

func NewClient(provider, apiKey string) *Client {
	return &Client{
		provider: provider,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Enabled reports whether a real provider is configured.
func (c *Client) Enabled() bool {
	return c.provider == "jina" || c.provider == "cohere"
}

// Rerank returns doc indices in relevance order, best first.
func (c *Client) Rerank(ctx context.Context, query string, docs []string) ([]int, error) {
	switch c.provider {
	case "jina":
		body := map[string]interface{}{
			"model":     "jina-reranker-v1-base-en",
			"query":     query,
			"documents": docs,
		}
		return c.call(ctx, "jina", "https://api.jina.ai/v1/rerank", body, len(docs))
	case "cohere":
		body := map[string]interface{}{
			"model":            "rerank-english-v3.0",
			"query":            query,
			"documents":        docs,
			"top_n":            len(docs),
			"return_documents": false,
		}
		return c.call(ctx, "cohere", "https://api.cohere.ai/v1/rerank", body, len(docs))
	}

	// Identity indices
	indices := make([]int, len(docs))
	for i := range indices {
		indices[i] = i
	}
	return indices, nil
}

func (c *Client) call(ctx context.Context, provider, url string, reqBody map[string]interface{}, docCount int) ([]int, error) {
	if c.baseURL != "" {
		url = c.baseURL
	}

	jsonBody, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		detail, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s api error: %d: %s", provider, resp.StatusCode, detail)
	}

	var result struct {
		Results []struct {
			Index int     `json:"index"`
			Score float64 `json:"relevance_score"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	indices := make([]int, 0, docCount)
	for _, r := range result.Results {
		if r.Index < docCount {
			indices = append(indices, r.Index)
		}
	}
	return indices, nil
}
