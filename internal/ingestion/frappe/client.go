package frappe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://frappe.io/api/method/frappe-library"

	rateBurst = 2

	// Retry configuration
	maxRetries   = 4
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

// Client pages through the Frappe library catalog with rate limiting and retries.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	initialDelay time.Duration
	logger       *zap.Logger
}

// NewClient creates a catalog client allowing rps requests per second.
func NewClient(baseURL string, rps float64, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL:      baseURL,
		rateLimiter:  rate.NewLimiter(rate.Limit(rps), rateBurst),
		initialDelay: initialDelay,
		logger:       logger.With(zap.String("source", "frappe")),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchPage requests one page of catalog records matching q. Pages start at 1.
// Records that cannot be read are reported in Page.Errors instead of failing the page.
func (c *Client) FetchPage(ctx context.Context, q Query, page int) (*Page, error) {
	params := q.values()
	params.Set("page", strconv.Itoa(page))

	var envelope response
	if err := c.doRequest(ctx, params, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch catalog page %d: %w", page, err)
	}

	result := &Page{Number: page, Size: len(envelope.Message)}
	for i, raw := range envelope.Message {
		b, err := parseRecord(raw)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		result.Books = append(result.Books, b)
	}
	return result, nil
}

// doRequest performs a GET with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, params url.Values, result interface{}) error {
	fullURL := c.baseURL + "?" + params.Encode()

	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "LibraryHub/1.0")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil || attempt == maxRetries {
				break
			}
			c.logger.Warn("request failed, retrying",
				zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(err))
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay = minDuration(delay*2, maxDelay)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)

			if !shouldRetry(resp.StatusCode) || attempt == maxRetries {
				return lastErr
			}
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if secs, err := strconv.Atoi(retryAfter); err == nil {
					delay = minDuration(time.Duration(secs)*time.Second, maxDelay)
				}
			}
			c.logger.Warn("upstream error, retrying",
				zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt+1), zap.Duration("delay", delay))
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay = minDuration(delay*2, maxDelay)
			continue
		}

		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		err = dec.Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
