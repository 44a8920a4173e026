// Package reconcile merges one raw registry entry with the exchange-rate
// mapping into a normalized country record.
//
// The rules are strict null propagation rather than validation: a malformed
// entry is normalized, never rejected.
//
//   - no currency descriptor   -> currency nil, rate nil, estimated GDP 0
//   - currency without a rate  -> rate nil, estimated GDP nil
//   - currency with a zero rate -> treated as absent: rate nil, GDP nil
//   - currency with a rate     -> GDP = population * multiplier / rate
//
// Only the first currency descriptor is considered; additional currencies
// are discarded. The multiplier is drawn per record from the injected
// MultiplierSource, so estimated GDP is intentionally not reproducible
// across refreshes.
package reconcile

import (
	"strings"

	"countrypulse/feature/countries/models"
)

// Reconcile builds a Country from one raw entry and the rate mapping.
// It is pure apart from the multiplier draw. The caller is responsible for
// skipping entries with an empty name; LastRefreshedAt is stamped by the
// store at write time.
func Reconcile(raw models.RawCountry, rates map[string]float64, src MultiplierSource) models.Country {
	name := strings.TrimSpace(raw.Name)

	c := models.Country{
		Name:    name,
		NameKey: strings.ToLower(name),
		Capital: raw.Capital,
		Region:  raw.Region,
		FlagURL: raw.Flag,
	}

	// Absent population stays 0; negative source values pass through.
	if raw.Population != nil {
		c.Population = *raw.Population
	}

	if len(raw.Currencies) == 0 {
		zero := 0.0
		c.EstimatedGdp = &zero
		return c
	}

	// First currency only.
	code := raw.Currencies[0].Code
	c.CurrencyCode = &code

	rate, ok := rates[code]
	if !ok || rate == 0 {
		// Unknown currency, or a zero rate that would divide by zero:
		// rate and GDP stay null.
		return c
	}

	c.ExchangeRate = &rate

	gdp := float64(c.Population) * src.Multiplier() / rate
	c.EstimatedGdp = &gdp

	return c
}
