// Package countries implements the country dataset feature.
//
// It maintains a denormalized record per country, built by reconciling two
// independent external sources:
//  1. Country registry: names, capitals, regions, populations, flags and
//     currency descriptors.
//  2. Exchange rates: a currency-to-rate table against a fixed base currency.
//
// A refresh cycle fetches both sources concurrently, reconciles every entry
// through the null-propagation rules in feature/countries/reconcile, and
// persists the whole batch plus the refresh-status row in one transaction.
// Readers never observe a partially refreshed dataset. After the commit a
// summary artifact (top countries by estimated GDP) is rendered and stored;
// its failure is logged and never fails the refresh.
//
// # Components
//
//   - Store: transactional gorm table of records plus the singleton status row.
//   - Service: orchestrates refresh cycles and serves queries.
//   - Handler: exposes the HTTP endpoints.
//   - Feature: registers the feature with the application loader.
//
// # HTTP Endpoints
//
//   - POST   /countries/refresh     : Run one refresh cycle.
//   - GET    /countries             : List records (region/currency filters, sort).
//   - GET    /countries/export.csv  : Same list as CSV.
//   - GET    /countries/image       : Most recent summary artifact.
//   - GET    /countries/:name       : Point lookup (case-insensitive).
//   - DELETE /countries/:name       : Delete (case-insensitive).
//   - GET    /status                : Refresh bookkeeping row.
package countries
