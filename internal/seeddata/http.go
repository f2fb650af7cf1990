package seeddata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitRecords submits records concurrently using a worker pool.
func submitRecords(ctx context.Context, config *Config, records []Record, stats *Stats) error {
	log.Printf("submitting %d records with %d workers", len(records), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/records"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	recordChan := make(chan Record, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for rec := range recordChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleRecord(ctx, client, url, rec)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						log.Printf("progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
							total, len(records), succ, dup, fail)
					}
				}
			}
		}()
	}

	go func() {
		defer close(recordChan)
		for _, rec := range records {
			select {
			case <-ctx.Done():
				return
			case recordChan <- rec:
			}
		}
	}()

	wg.Wait()

	stats.RecordsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RecordsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RecordsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.RecordsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("record submission completed: successful=%d duplicate=%d failed=%d",
		stats.RecordsSuccessful, stats.RecordsDuplicate, stats.RecordsFailed)

	return nil
}

// submitSingleRecord submits a single record and classifies the outcome.
func submitSingleRecord(ctx context.Context, client *HTTPClient, url string, rec Record) string {
	resp, err := client.Post(ctx, url, rec)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return "success"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// triggerRun asks the service to execute a scoring run over the submitted records.
func triggerRun(ctx context.Context, config *Config, stats *Stats) error {
	log.Println("triggering scoring run")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Post(ctx, config.BaseURL+"/runs", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var run RunResponse
	if err := json.Unmarshal(body, &run); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	stats.EntitiesScored = run.EntitiesScored
	log.Printf("run %s completed: records=%d entities=%d", run.RunID, run.RecordCount, run.EntitiesScored)

	return nil
}

// getRankings retrieves the top N ranking entries for a kind.
func getRankings(ctx context.Context, config *Config, kind string, stats *Stats) ([]RankingEntry, error) {
	log.Printf("getting top %d rankings for kind %s", config.TopN, kind)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/rankings?kind=%s&limit=%d", config.BaseURL, kind, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var rankings []RankingEntry
	if err := json.Unmarshal(body, &rankings); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.RankingEntries += len(rankings)
	log.Printf("retrieved %d ranking entries for kind %s", len(rankings), kind)

	return rankings, nil
}
