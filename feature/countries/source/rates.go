package source

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ratesPayload is the shape of the exchange-rate response. Only the rate
// table itself matters; every rate is relative to the base currency.
type ratesPayload struct {
	Base  string             `json:"base_code"`
	Rates map[string]float64 `json:"rates"`
}

// RatesClient fetches the currency-to-rate mapping.
type RatesClient struct {
	http    *http.Client
	url     string
	timeout time.Duration
}

// NewRatesClient creates an exchange-rate fetcher.
func NewRatesClient(cfg Config) *RatesClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RatesClient{
		http:    newHTTPClient(timeout),
		url:     cfg.RatesURL,
		timeout: timeout,
	}
}

// Fetch retrieves the rate mapping keyed by currency code.
func (c *RatesClient) Fetch(ctx context.Context) (map[string]float64, error) {
	var payload ratesPayload
	if err := fetchJSON(ctx, c.http, c.url, c.timeout, &payload); err != nil {
		return nil, err
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: rate table missing or empty", ErrSourceInvalid)
	}
	return payload.Rates, nil
}
