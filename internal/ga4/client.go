// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package ga4

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
)

// ReadOnlyScope is the OAuth scope required by runReport.
const ReadOnlyScope = analyticsdata.AnalyticsReadonlyScope

// Client calls the GA4 Data API v1beta.
//
// Requests are paced by a token bucket shared by all callers. HTTP 429 and
// 503 responses are retried with exponential backoff (base, 2*base, 4*base...)
// unless the server sends Retry-After. Safe for concurrent use.
type Client struct {
	svc            *analyticsdata.Service
	propertyID     string
	timeout        time.Duration
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient builds a client authenticated with the configured service account.
// Inline JSON credentials take precedence over the credentials file.
func NewClient(ctx context.Context, cfg *config.AnalyticsConfig) (*Client, error) {
	data, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, data, ReadOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	return newClient(ctx, cfg, option.WithCredentials(creds))
}

// NewClientWithHTTP builds a client on a caller-supplied HTTP client; the
// caller is responsible for authentication.
func NewClientWithHTTP(ctx context.Context, httpClient *http.Client, cfg *config.AnalyticsConfig) (*Client, error) {
	return newClient(ctx, cfg, option.WithHTTPClient(httpClient))
}

func newClient(ctx context.Context, cfg *config.AnalyticsConfig, opts ...option.ClientOption) (*Client, error) {
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create analytics data service: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &Client{
		svc:            svc,
		propertyID:     cfg.PropertyID,
		timeout:        timeout,
		limiter:        rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: baseDelay,
	}, nil
}

func credentialsJSON(cfg *config.AnalyticsConfig) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}
	if cfg.CredentialsFile == "" {
		return nil, errors.New("no GA4 credentials: set GOOGLE_SERVICE_ACCOUNT or GOOGLE_APPLICATION_CREDENTIALS")
	}
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return data, nil
}

// PropertyID returns the default property for requests that leave it empty.
func (c *Client) PropertyID() string {
	return c.propertyID
}

// RunReport executes one report query. An empty result is a Report with no
// rows. Non-2xx responses become *APIError.
func (c *Client) RunReport(ctx context.Context, req *ReportRequest) (*Report, error) {
	propertyID := req.PropertyID
	if propertyID == "" {
		propertyID = c.propertyID
	}

	start := time.Now()
	resp, err := c.runWithRetry(ctx, "properties/"+propertyID, req.toAPI())
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			metrics.RecordAnalyticsRequest(apiErr.StatusCode, time.Since(start))
		} else {
			metrics.AnalyticsRequestDuration.Observe(time.Since(start).Seconds())
		}
		return nil, err
	}
	metrics.RecordAnalyticsRequest(http.StatusOK, time.Since(start))
	return reportFromAPI(resp), nil
}

// runWithRetry issues the call, retrying throttling responses. The returned
// error is the first non-retryable failure, or the last attempt's.
func (c *Client) runWithRetry(ctx context.Context, property string, body *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("analytics rate limiter: %w", err)
		}

		resp, err := c.do(ctx, property, body)
		if err == nil {
			return resp, nil
		}

		var gerr *googleapi.Error
		if !errors.As(err, &gerr) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			metrics.RecordAnalyticsRequest(0, 0)
			return nil, fmt.Errorf("analytics request failed: %w", err)
		}

		if !retryable(gerr.Code) || attempt >= c.maxRetries {
			if retryable(gerr.Code) && c.maxRetries > 0 {
				logging.Ctx(ctx).Warn().Int("status", gerr.Code).Int("retries", c.maxRetries).
					Msg("Analytics API still throttling after retries")
			}
			return nil, apiErrorFrom(gerr)
		}

		delay := c.backoff(attempt, gerr.Header.Get("Retry-After"))
		metrics.AnalyticsRetries.WithLabelValues(strconv.Itoa(gerr.Code)).Inc()
		logging.Ctx(ctx).Debug().Int("status", gerr.Code).Int("attempt", attempt+1).
			Dur("delay", delay).Msg("Analytics API throttled, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// do runs a single attempt bounded by the client timeout.
func (c *Client) do(ctx context.Context, property string, body *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.svc.Properties.RunReport(property, body).Context(ctx).Do()
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// backoff honors an integer Retry-After header, otherwise doubles the base delay.
func (c *Client) backoff(attempt int, retryAfter string) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return c.retryBaseDelay * time.Duration(1<<uint(attempt))
}
