package models

import "time"

// RefreshResponse is returned by the refresh endpoint after a committed cycle.
type RefreshResponse struct {
	Message         string    `json:"message"`
	TotalCountries  int64     `json:"total_countries"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

// CountryCSVRow is the flat row shape used by the CSV export endpoint.
// Pointer fields render as empty cells when the value is null.
type CountryCSVRow struct {
	Name         string   `csv:"name"`
	Capital      *string  `csv:"capital"`
	Region       *string  `csv:"region"`
	Population   int64    `csv:"population"`
	CurrencyCode *string  `csv:"currency_code"`
	ExchangeRate *float64 `csv:"exchange_rate"`
	EstimatedGdp *float64 `csv:"estimated_gdp"`
}
