package models

import "time"

// Country is the denormalized record produced by one refresh cycle.
// Optional source fields are pointers so that "absent" survives the
// round-trip to the database and out to JSON as null.
type Country struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Name    string `gorm:"column:name;size:120;not null" json:"name"`
	// NameKey is the lowercased name. It carries the unique index so that
	// lookups, deletes and upserts match case-insensitively.
	NameKey         string    `gorm:"column:name_key;size:120;not null;uniqueIndex" json:"-"`
	Capital         *string   `gorm:"column:capital;size:120" json:"capital"`
	Region          *string   `gorm:"column:region;size:80" json:"region"`
	Population      int64     `gorm:"column:population;not null;default:0" json:"population"`
	CurrencyCode    *string   `gorm:"column:currency_code;size:8" json:"currency_code"`
	ExchangeRate    *float64  `gorm:"column:exchange_rate" json:"exchange_rate"`
	EstimatedGdp    *float64  `gorm:"column:estimated_gdp" json:"estimated_gdp"`
	FlagURL         *string   `gorm:"column:flag_url;size:255" json:"flag_url"`
	LastRefreshedAt time.Time `gorm:"column:last_refreshed_at" json:"last_refreshed_at"`
}

// TableName overrides the table name.
func (Country) TableName() string {
	return "countries"
}

// RefreshStatus is the singleton bookkeeping row. It is created once at
// startup and updated inside the same transaction as every bulk upsert,
// so readers always see a count that matches a committed dataset.
type RefreshStatus struct {
	ID              int64      `gorm:"column:id;primaryKey" json:"-"`
	TotalCountries  int64      `gorm:"column:total_countries;not null;default:0" json:"total_countries"`
	LastRefreshedAt *time.Time `gorm:"column:last_refreshed_at" json:"last_refreshed_at"`
}

// TableName overrides the table name.
func (RefreshStatus) TableName() string {
	return "refresh_status"
}

// RawCurrency is one currency descriptor from the country registry payload.
type RawCurrency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RawCountry is one undecoded registry entry. Everything except the name
// is optional; the reconciler normalizes whatever is missing.
type RawCountry struct {
	Name       string        `json:"name"`
	Capital    *string       `json:"capital"`
	Region     *string       `json:"region"`
	Population *int64        `json:"population"`
	Flag       *string       `json:"flag"`
	Currencies []RawCurrency `json:"currencies"`
}
