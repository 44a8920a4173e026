package source

import (
	"context"
	"net/http"
	"time"

	"countrypulse/feature/countries/models"
)

// CountriesClient fetches the raw country list from the registry source.
type CountriesClient struct {
	http    *http.Client
	url     string
	timeout time.Duration
}

// NewCountriesClient creates a country registry fetcher.
func NewCountriesClient(cfg Config) *CountriesClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CountriesClient{
		http:    newHTTPClient(timeout),
		url:     cfg.CountriesURL,
		timeout: timeout,
	}
}

// Fetch retrieves and decodes the full registry payload.
func (c *CountriesClient) Fetch(ctx context.Context) ([]models.RawCountry, error) {
	var entries []models.RawCountry
	if err := fetchJSON(ctx, c.http, c.url, c.timeout, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
