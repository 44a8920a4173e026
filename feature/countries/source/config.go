package source

// Config holds configuration for the external data sources.
type Config struct {
	// CountriesURL is the country registry endpoint.
	CountriesURL string `mapstructure:"countries_url" default:"https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"`
	// RatesURL is the exchange-rate endpoint. Rates are denominated
	// against the base currency encoded in the URL (USD).
	RatesURL string `mapstructure:"rates_url" default:"https://open.er-api.com/v6/latest/USD"`
	// TimeoutSeconds is the per-fetch timeout in seconds. A fetch that
	// exceeds it aborts the whole refresh cycle.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
}
