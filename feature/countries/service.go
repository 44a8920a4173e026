package countries

import (
	"context"
	"strings"
	"sync"
	"time"

	"countrypulse/feature/countries/models"
	"countrypulse/feature/countries/reconcile"

	"go.uber.org/zap"
)

// CountrySource fetches the raw country list.
type CountrySource interface {
	Fetch(ctx context.Context) ([]models.RawCountry, error)
}

// RateSource fetches the currency-to-rate mapping.
type RateSource interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// SummaryHook runs after a refresh commits, receiving the committed total,
// the top records by estimated GDP and the refresh timestamp. Hook failures
// never affect the refresh outcome.
type SummaryHook func(ctx context.Context, total int64, top []models.Country, at time.Time) error

// RefreshResult is the outcome of one committed refresh cycle.
type RefreshResult struct {
	Total       int64
	RefreshedAt time.Time
}

// Service drives refresh cycles and serves queries over the store.
type Service struct {
	store      *Store
	countries  CountrySource
	rates      RateSource
	multiplier reconcile.MultiplierSource
	logger     *zap.Logger
	hooks      []SummaryHook
}

// NewService creates the countries service.
func NewService(store *Store, countries CountrySource, rates RateSource, multiplier reconcile.MultiplierSource, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		countries:  countries,
		rates:      rates,
		multiplier: multiplier,
		logger:     logger,
	}
}

// OnRefresh registers a post-commit hook.
func (s *Service) OnRefresh(h SummaryHook) {
	s.hooks = append(s.hooks, h)
}

// Migrate prepares the schema and the singleton status row.
func (s *Service) Migrate() error {
	return s.store.Migrate()
}

// Refresh runs one full cycle: fetch both sources, reconcile every entry,
// persist the batch atomically, then fire the post-commit hooks.
//
// Either fetch failing aborts the cycle before any write. The two fetches
// run concurrently; both must finish before reconciliation starts.
func (s *Service) Refresh(ctx context.Context) (*RefreshResult, error) {
	var (
		raw      []models.RawCountry
		rates    map[string]float64
		rawErr   error
		ratesErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		raw, rawErr = s.countries.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		rates, ratesErr = s.rates.Fetch(ctx)
	}()
	wg.Wait()

	if rawErr != nil {
		return nil, rawErr
	}
	if ratesErr != nil {
		return nil, ratesErr
	}

	// Reconciliation never fails; nameless entries are the one thing the
	// record model cannot represent and are dropped.
	records := make([]models.Country, 0, len(raw))
	for _, entry := range raw {
		if strings.TrimSpace(entry.Name) == "" {
			continue
		}
		records = append(records, reconcile.Reconcile(entry, rates, s.multiplier))
	}

	total, at, err := s.store.UpsertAll(ctx, records)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Refresh committed",
		zap.Int("fetched", len(raw)),
		zap.Int("reconciled", len(records)),
		zap.Int64("total", total),
	)

	s.runHooks(ctx, total, at)

	return &RefreshResult{Total: total, RefreshedAt: at}, nil
}

// runHooks feeds the committed outcome to every registered hook. Errors are
// logged and swallowed: the refresh already committed.
func (s *Service) runHooks(ctx context.Context, total int64, at time.Time) {
	if len(s.hooks) == 0 {
		return
	}

	top, err := s.store.TopByGdp(ctx, 5)
	if err != nil {
		s.logger.Warn("Skipping summary generation", zap.Error(err))
		return
	}

	for _, h := range s.hooks {
		if err := h(ctx, total, top, at); err != nil {
			s.logger.Warn("Summary generation failed", zap.Error(err))
		}
	}
}

// List returns the filtered, ordered records.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Country, error) {
	return s.store.List(ctx, f)
}

// Get returns one record by case-insensitive name.
func (s *Service) Get(ctx context.Context, name string) (*models.Country, error) {
	return s.store.Get(ctx, name)
}

// Delete removes one record by case-insensitive name.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// Status returns the singleton refresh status.
func (s *Service) Status(ctx context.Context) (*models.RefreshStatus, error) {
	return s.store.Status(ctx)
}
