package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"SectorPulse/internal/domain/models"
	drepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/service/ratelimit"
	xhttp "SectorPulse/pkg/http"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultUserAgent = "Mozilla/5.0"
	limiterKey       = "yahoo"
)

// Client implements a PriceSource backed by the Yahoo Finance chart API.
// Outbound requests share a token bucket so sector fan-outs stay within the
// upstream rate limit.
type Client struct {
	baseURL    string
	userAgent  string
	http       *xhttp.Client
	limiter    *ratelimit.Limiter
	ratePerSec float64
	burst      float64
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (tests point this at a local server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithUserAgent overrides the request User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

// WithRateLimit sets the outbound requests-per-second budget and burst size.
func WithRateLimit(perSec, burst float64) Option {
	return func(c *Client) {
		c.ratePerSec = perSec
		c.burst = burst
	}
}

func New(opts ...Option) drepo.PriceSource {
	c := &Client{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		http:       xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		limiter:    ratelimit.New(),
		ratePerSec: 5,
		burst:      8,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse is the Yahoo Finance v8 chart payload, reduced to the fields
// the fetcher reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses fetches the full available daily close history for symbol.
func (c *Client) DailyCloses(ctx context.Context, symbol string) (models.PriceSeries, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.burst, c.ratePerSec); err != nil {
		return nil, fmt.Errorf("yahoo rate limit: %w", err)
	}

	var chart chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol)),
		Headers: map[string]string{
			"User-Agent": c.userAgent,
		},
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {"max"},
			"events":   {"div,split"},
		},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no result for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return models.PriceSeries{}, nil
	}
	closes := result.Indicators.Quote[0].Close

	series := make(models.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bars: holidays, halted sessions
		}
		series = append(series, models.PricePoint{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	return series, nil
}
