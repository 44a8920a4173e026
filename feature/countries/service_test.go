package countries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"countrypulse/core/database"
	"countrypulse/feature/countries"
	"countrypulse/feature/countries/models"
	"countrypulse/feature/countries/reconcile"
	"countrypulse/feature/countries/source"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubCountrySource struct {
	entries []models.RawCountry
	err     error
}

func (s stubCountrySource) Fetch(ctx context.Context) ([]models.RawCountry, error) {
	return s.entries, s.err
}

type stubRateSource struct {
	rates map[string]float64
	err   error
}

func (s stubRateSource) Fetch(ctx context.Context) (map[string]float64, error) {
	return s.rates, s.err
}

func setupService(t *testing.T, dbName string, cs countries.CountrySource, rs countries.RateSource, m reconcile.MultiplierSource) (*countries.Service, *countries.Store) {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	store := countries.NewStore(db)
	svc := countries.NewService(store, cs, rs, m, zap.NewNop())
	if err := svc.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return svc, store
}

func nigeriaEntries() []models.RawCountry {
	return []models.RawCountry{
		{
			Name:       "Nigeria",
			Capital:    lo.ToPtr("Abuja"),
			Region:     lo.ToPtr("Africa"),
			Population: lo.ToPtr(int64(200000000)),
			Currencies: []models.RawCurrency{{Code: "NGN"}},
		},
		{
			Name:       "Atlantis",
			Population: lo.ToPtr(int64(1000)),
		},
		{
			Name: "", // nameless entries are dropped
		},
	}
}

func TestService_Refresh(t *testing.T) {
	cs := stubCountrySource{entries: nigeriaEntries()}
	rs := stubRateSource{rates: map[string]float64{"NGN": 1600}}
	svc, store := setupService(t, "svc_refresh", cs, rs, reconcile.Fixed(1500))

	var hookTotal int64
	var hookTop []models.Country
	svc.OnRefresh(func(ctx context.Context, total int64, top []models.Country, at time.Time) error {
		hookTotal = total
		hookTop = top
		return nil
	})

	res, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	// Deterministic scenario: 200000000 * 1500 / 1600
	got, err := store.Get(context.Background(), "nigeria")
	assert.NoError(t, err)
	if assert.NotNil(t, got.EstimatedGdp) {
		assert.Equal(t, 187500000.0, *got.EstimatedGdp)
	}
	assert.WithinDuration(t, res.RefreshedAt, got.LastRefreshedAt, time.Second)

	// Hook saw the committed state; Atlantis has GDP 0 and still ranks.
	assert.Equal(t, int64(2), hookTotal)
	if assert.NotEmpty(t, hookTop) {
		assert.Equal(t, "Nigeria", hookTop[0].Name)
	}

	st, err := svc.Status(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalCountries)
}

func TestService_Refresh_SourceFailureLeavesStoreUntouched(t *testing.T) {
	// Seed with a successful refresh first.
	okCS := stubCountrySource{entries: nigeriaEntries()}
	okRS := stubRateSource{rates: map[string]float64{"NGN": 1600}}
	svc, store := setupService(t, "svc_failure", okCS, okRS, reconcile.Fixed(1500))

	_, err := svc.Refresh(context.Background())
	assert.NoError(t, err)

	before, err := store.List(context.Background(), countries.Filter{})
	assert.NoError(t, err)
	stBefore, err := store.Status(context.Background())
	assert.NoError(t, err)

	// Rate fetch now fails; the cycle must abort with no writes.
	failing := countries.NewService(store, okCS,
		stubRateSource{err: fmt.Errorf("%w: connect timeout", source.ErrSourceUnavailable)},
		reconcile.Fixed(1500), zap.NewNop())

	_, err = failing.Refresh(context.Background())
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)

	after, err := store.List(context.Background(), countries.Filter{})
	assert.NoError(t, err)
	stAfter, err := store.Status(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, stBefore, stAfter)
}

func TestService_Refresh_HookFailureIsSwallowed(t *testing.T) {
	cs := stubCountrySource{entries: nigeriaEntries()}
	rs := stubRateSource{rates: map[string]float64{"NGN": 1600}}
	svc, _ := setupService(t, "svc_hookfail", cs, rs, reconcile.Fixed(1500))

	svc.OnRefresh(func(ctx context.Context, total int64, top []models.Country, at time.Time) error {
		return fmt.Errorf("render exploded")
	})

	res, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
}

func TestService_Refresh_GdpVariesButFactsAreStable(t *testing.T) {
	cs := stubCountrySource{entries: nigeriaEntries()}
	rs := stubRateSource{rates: map[string]float64{"NGN": 1600}}
	svc, store := setupService(t, "svc_variance", cs, rs, reconcile.NewUniformSource())

	_, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	first, err := store.Get(context.Background(), "nigeria")
	assert.NoError(t, err)

	_, err = svc.Refresh(context.Background())
	assert.NoError(t, err)
	second, err := store.Get(context.Background(), "nigeria")
	assert.NoError(t, err)

	// Non-derived facts are reproducible across refreshes.
	assert.Equal(t, first.CurrencyCode, second.CurrencyCode)
	assert.Equal(t, first.ExchangeRate, second.ExchangeRate)
	assert.Equal(t, first.Population, second.Population)

	// Estimated GDP is a random variable with a known range.
	for _, c := range []*models.Country{first, second} {
		if assert.NotNil(t, c.EstimatedGdp) {
			assert.GreaterOrEqual(t, *c.EstimatedGdp, 200000000.0*1000/1600)
			assert.Less(t, *c.EstimatedGdp, 200000000.0*2000/1600)
		}
	}
}
