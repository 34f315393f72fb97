// Package rerank provides an HTTP client for cross-encoder rerank services
// exposing the text-embeddings-inference style POST /rerank endpoint.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/ticketrouter/ai"
)

const defaultTimeout = 60 * time.Second

// Client implements ai.Reranker against a remote cross-encoder service.
type Client struct {
	host        string
	model       string
	http        *http.Client
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

var _ ai.Reranker = (*Client)(nil)

// NewClient creates a rerank client for the given host and model.
func NewClient(host, model string) (*Client, error) {
	if host == "" {
		return nil, errors.New("rerank host required")
	}
	return &Client{
		host:        host,
		model:       model,
		http:        &http.Client{Timeout: defaultTimeout},
		maxAttempts: ai.DefaultMaxAttempts,
		retryDelay:  ai.DefaultRetryDelay,
		logger:      slog.Default().With("component", "rerank-client"),
	}, nil
}

type rerankRequest struct {
	Model string   `json:"model,omitempty"`
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type rerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Score returns one relevance score per candidate, in candidate order.
func (c *Client) Score(ctx context.Context, query string, candidates []string) ([]float64, error) {
	if len(candidates) == 0 {
		return []float64{}, nil
	}

	body, err := json.Marshal(rerankRequest{
		Model: c.model,
		Query: query,
		Texts: candidates,
	})
	if err != nil {
		return nil, err
	}

	var results []rerankResult
	err = ai.RetryWithBackoff(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/rerank", bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.http.Do(req)
		if doErr != nil {
			c.logger.Error("rerank request failed", "err", doErr)
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("rerank service returned %d: %s", resp.StatusCode, string(data))
		}

		if decErr := json.NewDecoder(resp.Body).Decode(&results); decErr != nil {
			return fmt.Errorf("decode rerank response: %w", decErr)
		}
		return nil
	}, c.maxAttempts, c.retryDelay)
	if err != nil {
		return nil, err
	}

	// The service returns results sorted by score; restore candidate order.
	scores := make([]float64, len(candidates))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(scores) {
			return nil, fmt.Errorf("rerank result index %d out of range", r.Index)
		}
		scores[r.Index] = r.Score
	}

	return scores, nil
}
