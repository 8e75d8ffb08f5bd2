package fxsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tellimer/econify/domain"
)

// HTTPLiveSource is the default live RateProvider (§4.10's "ECB" default
// source id): a GET against a configurable rates endpoint returning
// {"base": "...", "rates": {"EUR": 0.85, ...}}.
type HTTPLiveSource struct {
	client  *http.Client
	baseURL string
}

// NewHTTPLiveSource constructs an HTTPLiveSource. A nil client defaults to
// http.DefaultClient.
func NewHTTPLiveSource(baseURL string, client *http.Client) *HTTPLiveSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLiveSource{client: client, baseURL: baseURL}
}

type liveRatesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates implements RateProvider.
func (s *HTTPLiveSource) FetchRates(ctx context.Context, base string, asOf time.Time) (domain.FXTable, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: invalid live source URL: %w", err)
	}
	q := u.Query()
	q.Set("base", base)
	q.Set("date", asOf.Format("2006-01-02"))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: build live request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: live request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.FXTable{}, fmt.Errorf("fxsource: live source returned status %d", resp.StatusCode)
	}

	var body liveRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.FXTable{}, fmt.Errorf("fxsource: decode live response: %w", err)
	}

	return domain.FXTable{
		Base:     body.Base,
		Rates:    body.Rates,
		Source:   domain.FXSourceLive,
		SourceID: domain.DefaultSourceID(domain.FXSourceLive),
		AsOf:     asOf,
	}, nil
}
