package countries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"countrypulse/feature/countries/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound marks a lookup or delete against a name that is not stored.
var ErrNotFound = errors.New("country not found")

// ErrInvalidSort marks an unrecognized sort key.
var ErrInvalidSort = errors.New("invalid sort key")

// SortKey selects the ordering of a list query.
type SortKey string

const (
	SortNameAsc        SortKey = "name_asc"
	SortGdpDesc        SortKey = "gdp_desc"
	SortGdpAsc         SortKey = "gdp_asc"
	SortPopulationDesc SortKey = "population_desc"
	SortPopulationAsc  SortKey = "population_asc"
)

// ParseSortKey validates a sort parameter; empty means the default name_asc.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortNameAsc:
		return SortNameAsc, nil
	case SortGdpDesc, SortGdpAsc, SortPopulationDesc, SortPopulationAsc:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
}

// Filter narrows and orders a list query. Region and Currency are exact
// matches and are ANDed when both are set.
type Filter struct {
	Region   string
	Currency string
	Sort     SortKey
}

// Store is the durable keyed table of country records plus the singleton
// refresh status row.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on top of an established gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema and seeds the singleton status row. The status
// row exists from initialization on and is only ever updated afterwards.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&models.Country{}, &models.RefreshStatus{}); err != nil {
		return fmt.Errorf("migrate countries schema: %w", err)
	}
	status := models.RefreshStatus{ID: 1}
	if err := s.db.Where("id = ?", 1).FirstOrCreate(&status).Error; err != nil {
		return fmt.Errorf("seed refresh status: %w", err)
	}
	return nil
}

// upsertColumns are the columns overwritten when a name already exists.
// Every present field is replaced; nothing from a prior refresh survives.
var upsertColumns = []string{
	"name", "capital", "region", "population",
	"currency_code", "exchange_rate", "estimated_gdp",
	"flag_url", "last_refreshed_at",
}

// UpsertAll writes the whole reconciled batch and the status row in one
// transaction. On any failure nothing persists, including the status row.
// Concurrent refreshes serialize on the database's transaction isolation;
// readers observe either the prior or the new committed dataset.
func (s *Store) UpsertAll(ctx context.Context, records []models.Country) (int64, time.Time, error) {
	now := time.Now().UTC()
	var total int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			rec := records[i]
			rec.ID = 0
			rec.LastRefreshedAt = now

			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name_key"}},
				DoUpdates: clause.AssignmentColumns(upsertColumns),
			}).Create(&rec).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Country{}).Count(&total).Error; err != nil {
			return err
		}

		return tx.Model(&models.RefreshStatus{}).Where("id = ?", 1).
			Updates(map[string]any{
				"total_countries":   total,
				"last_refreshed_at": now,
			}).Error
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("upsert countries: %w", err)
	}

	return total, now, nil
}

// Get returns the record matching name case-insensitively.
func (s *Store) Get(ctx context.Context, name string) (*models.Country, error) {
	var c models.Country
	err := s.db.WithContext(ctx).
		Where("name_key = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get country: %w", err)
	}
	return &c, nil
}

// Delete removes the record matching name case-insensitively.
func (s *Store) Delete(ctx context.Context, name string) error {
	res := s.db.WithContext(ctx).
		Where("name_key = ?", strings.ToLower(strings.TrimSpace(name))).
		Delete(&models.Country{})
	if res.Error != nil {
		return fmt.Errorf("delete country: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the filtered records in the order given by the sort key.
// Null sort fields go last; the trailing name tiebreak keeps repeated calls
// stable on unchanged data.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Country, error) {
	q := s.db.WithContext(ctx).Model(&models.Country{})

	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.Currency != "" {
		q = q.Where("currency_code = ?", f.Currency)
	}

	switch f.Sort {
	case SortGdpDesc:
		q = q.Order("estimated_gdp IS NULL, estimated_gdp DESC")
	case SortGdpAsc:
		q = q.Order("estimated_gdp IS NULL, estimated_gdp ASC")
	case SortPopulationDesc:
		q = q.Order("population DESC")
	case SortPopulationAsc:
		q = q.Order("population ASC")
	}
	q = q.Order("name ASC")

	var out []models.Country
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return out, nil
}

// TopByGdp returns the n highest records by estimated GDP, nulls excluded.
func (s *Store) TopByGdp(ctx context.Context, n int) ([]models.Country, error) {
	var out []models.Country
	err := s.db.WithContext(ctx).
		Where("estimated_gdp IS NOT NULL").
		Order("estimated_gdp DESC").
		Order("name ASC").
		Limit(n).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("top countries by gdp: %w", err)
	}
	return out, nil
}

// Status returns the singleton refresh status row.
func (s *Store) Status(ctx context.Context) (*models.RefreshStatus, error) {
	var st models.RefreshStatus
	if err := s.db.WithContext(ctx).First(&st, 1).Error; err != nil {
		return nil, fmt.Errorf("get refresh status: %w", err)
	}
	return &st, nil
}
