package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/qscore/pkg/logger"
)

// maxErrorBody bounds how much of a failed response is kept for logging.
const maxErrorBody = 512

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// batchResult is the outcome of one scoring request.
type batchResult struct {
	resp ScoreResponse
	err  error
}

// submitBatches posts batches concurrently and checks each response as it arrives.
func submitBatches(ctx context.Context, cfg *Config, batches [][]Record, stats *Stats) {
	logger.Get().Info(ctx, "submitting batches",
		logger.Int("batches", len(batches)),
		logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/v1/score"

	var submitted, failed atomic.Int64
	var mu sync.Mutex

	work := make(chan []Record, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range work {
				if ctx.Err() != nil {
					return
				}
				res := submitBatch(ctx, client, url, ScoreRequest{Items: batch, Direction: cfg.Direction})
				submitted.Add(1)
				if res.err != nil {
					failed.Add(1)
					logger.Get().Warn(ctx, "batch failed", logger.Error(res.err))
					continue
				}

				mu.Lock()
				tally(stats, res.resp)
				violations := checkOrder(res.resp)
				stats.OrderViolations += violations
				mu.Unlock()

				if cfg.Verbose || violations > 0 {
					logger.Get().Info(ctx, "batch scored",
						logger.String("passId", res.resp.PassID),
						logger.Int("items", len(res.resp.Items)),
						logger.Int("orderViolations", violations))
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				return
			case work <- batch:
			}
		}
	}()

	wg.Wait()

	stats.BatchesSubmitted = int(submitted.Load())
	stats.BatchesFailed = int(failed.Load())
	stats.BatchesOK = stats.BatchesSubmitted - stats.BatchesFailed
}

// submitBatch posts one batch and decodes the response.
func submitBatch(ctx context.Context, client *HTTPClient, url string, body ScoreRequest) batchResult {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return batchResult{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return batchResult{err: fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))}
	}

	var out ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return batchResult{err: fmt.Errorf("decode response: %w", err)}
	}
	return batchResult{resp: out}
}
