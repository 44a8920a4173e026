package reconcile_test

import (
	"testing"

	"countrypulse/feature/countries/models"
	"countrypulse/feature/countries/reconcile"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestReconcile_NullPropagation(t *testing.T) {
	rates := map[string]float64{"NGN": 1600}

	t.Run("NoCurrency", func(t *testing.T) {
		raw := models.RawCountry{Name: "Atlantis", Population: lo.ToPtr(int64(1000))}

		c := reconcile.Reconcile(raw, rates, reconcile.Fixed(1500))

		assert.Nil(t, c.CurrencyCode)
		assert.Nil(t, c.ExchangeRate)
		if assert.NotNil(t, c.EstimatedGdp) {
			assert.Equal(t, 0.0, *c.EstimatedGdp)
		}
	})

	t.Run("CurrencyWithoutRate", func(t *testing.T) {
		raw := models.RawCountry{
			Name:       "Atlantis",
			Population: lo.ToPtr(int64(1000)),
			Currencies: []models.RawCurrency{{Code: "ATL"}},
		}

		c := reconcile.Reconcile(raw, rates, reconcile.Fixed(1500))

		if assert.NotNil(t, c.CurrencyCode) {
			assert.Equal(t, "ATL", *c.CurrencyCode)
		}
		assert.Nil(t, c.ExchangeRate)
		assert.Nil(t, c.EstimatedGdp)
	})

	t.Run("ZeroRateTreatedAsAbsent", func(t *testing.T) {
		raw := models.RawCountry{
			Name:       "Nullmark",
			Population: lo.ToPtr(int64(1000)),
			Currencies: []models.RawCurrency{{Code: "ZRO"}},
		}

		c := reconcile.Reconcile(raw, map[string]float64{"ZRO": 0}, reconcile.Fixed(1500))

		if assert.NotNil(t, c.CurrencyCode) {
			assert.Equal(t, "ZRO", *c.CurrencyCode)
		}
		assert.Nil(t, c.ExchangeRate)
		assert.Nil(t, c.EstimatedGdp)
	})

	t.Run("CurrencyWithRate", func(t *testing.T) {
		raw := models.RawCountry{
			Name:       "Nigeria",
			Population: lo.ToPtr(int64(200000000)),
			Currencies: []models.RawCurrency{{Code: "NGN"}},
		}

		c := reconcile.Reconcile(raw, rates, reconcile.Fixed(1500))

		if assert.NotNil(t, c.ExchangeRate) {
			assert.Equal(t, 1600.0, *c.ExchangeRate)
		}
		// 200000000 * 1500 / 1600
		if assert.NotNil(t, c.EstimatedGdp) {
			assert.Equal(t, 187500000.0, *c.EstimatedGdp)
		}
	})
}

func TestReconcile_FirstCurrencyOnly(t *testing.T) {
	rates := map[string]float64{"USD": 1, "EUR": 0.9}
	raw := models.RawCountry{
		Name:       "Duoland",
		Population: lo.ToPtr(int64(50)),
		Currencies: []models.RawCurrency{{Code: "EUR"}, {Code: "USD"}},
	}

	c := reconcile.Reconcile(raw, rates, reconcile.Fixed(1000))

	if assert.NotNil(t, c.CurrencyCode) {
		assert.Equal(t, "EUR", *c.CurrencyCode)
	}
	if assert.NotNil(t, c.ExchangeRate) {
		assert.Equal(t, 0.9, *c.ExchangeRate)
	}
}

func TestReconcile_OptionalFields(t *testing.T) {
	raw := models.RawCountry{Name: "  Bare  "}

	c := reconcile.Reconcile(raw, map[string]float64{}, reconcile.Fixed(1000))

	assert.Equal(t, "Bare", c.Name)
	assert.Equal(t, "bare", c.NameKey)
	assert.Nil(t, c.Capital)
	assert.Nil(t, c.Region)
	assert.Nil(t, c.FlagURL)
	assert.Equal(t, int64(0), c.Population)
}

func TestReconcile_NegativePopulationPassesThrough(t *testing.T) {
	raw := models.RawCountry{
		Name:       "Oddland",
		Population: lo.ToPtr(int64(-5)),
		Currencies: []models.RawCurrency{{Code: "USD"}},
	}

	c := reconcile.Reconcile(raw, map[string]float64{"USD": 1}, reconcile.Fixed(1000))

	assert.Equal(t, int64(-5), c.Population)
	if assert.NotNil(t, c.EstimatedGdp) {
		assert.Equal(t, -5000.0, *c.EstimatedGdp)
	}
}

func TestUniformSource_Range(t *testing.T) {
	src := reconcile.NewUniformSource()
	for i := 0; i < 1000; i++ {
		m := src.Multiplier()
		assert.GreaterOrEqual(t, m, 1000.0)
		assert.Less(t, m, 2000.0)
	}
}

func TestReconcile_GdpWithinMultiplierRange(t *testing.T) {
	rates := map[string]float64{"NGN": 1600}
	raw := models.RawCountry{
		Name:       "Nigeria",
		Population: lo.ToPtr(int64(200000000)),
		Currencies: []models.RawCurrency{{Code: "NGN"}},
	}
	src := reconcile.NewUniformSource()

	for i := 0; i < 100; i++ {
		c := reconcile.Reconcile(raw, rates, src)
		if assert.NotNil(t, c.EstimatedGdp) {
			assert.GreaterOrEqual(t, *c.EstimatedGdp, 200000000.0*1000/1600)
			assert.Less(t, *c.EstimatedGdp, 200000000.0*2000/1600)
		}
	}
}
