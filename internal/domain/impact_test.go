package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/skill4green/internal/catalog"
	"github.com/davidbz/skill4green/internal/domain"
)

func newTestCalculator(t *testing.T) *domain.ImpactCalculator {
	t.Helper()

	c, err := catalog.New(nil)
	require.NoError(t, err)

	return domain.NewImpactCalculator(c, &domain.ImpactConfig{
		EmissionFactor: 0.084,
		Tariff:         0.95,
		CurrencySymbol: "R$",
	})
}

func ptr(v float64) *float64 {
	return &v
}

func TestImpactCalculator_Estimate(t *testing.T) {
	ctx := context.Background()

	t.Run("should compute LED_REPLACE twice with default factors", func(t *testing.T) {
		calc := newTestCalculator(t)

		estimate := calc.Estimate(ctx, domain.ImpactRequest{TaskCode: "LED_REPLACE", Executions: 2})

		require.InDelta(t, 1.0, estimate.KWh, 1e-9)
		require.InDelta(t, 0.084, estimate.CO2, 1e-9)
		require.InDelta(t, 0.95, estimate.Cost, 1e-9)
	})

	t.Run("should count at least one execution", func(t *testing.T) {
		calc := newTestCalculator(t)

		zero := calc.Estimate(ctx, domain.ImpactRequest{TaskCode: "AC_OFF_AFTER_HOURS", Executions: 0})
		negative := calc.Estimate(ctx, domain.ImpactRequest{TaskCode: "AC_OFF_AFTER_HOURS", Executions: -3})

		require.InDelta(t, 1.2, zero.KWh, 1e-9)
		require.InDelta(t, 1.2, negative.KWh, 1e-9)
	})

	t.Run("should assume zero savings for unknown task", func(t *testing.T) {
		calc := newTestCalculator(t)

		estimate := calc.Estimate(ctx, domain.ImpactRequest{TaskCode: "PLANT_TREE", Executions: 5})

		require.Zero(t, estimate.KWh)
		require.Zero(t, estimate.CO2)
		require.Zero(t, estimate.Cost)
	})

	t.Run("should use positive kwh override and derive the rest", func(t *testing.T) {
		calc := newTestCalculator(t)

		estimate := calc.Estimate(ctx, domain.ImpactRequest{
			TaskCode:   "LED_REPLACE",
			Executions: 2,
			KWh:        ptr(10),
		})

		require.InDelta(t, 10.0, estimate.KWh, 1e-9)
		require.InDelta(t, 0.84, estimate.CO2, 1e-9)
		require.InDelta(t, 9.5, estimate.Cost, 1e-9)
	})

	t.Run("should ignore non-positive kwh override", func(t *testing.T) {
		calc := newTestCalculator(t)

		estimate := calc.Estimate(ctx, domain.ImpactRequest{
			TaskCode:   "LED_REPLACE",
			Executions: 2,
			KWh:        ptr(0),
		})

		require.InDelta(t, 1.0, estimate.KWh, 1e-9)
	})

	t.Run("should honor co2 and cost overrides including zero", func(t *testing.T) {
		calc := newTestCalculator(t)

		estimate := calc.Estimate(ctx, domain.ImpactRequest{
			TaskCode:   "GREEN_WORKSHOPS",
			Executions: 1,
			CO2:        ptr(0),
			Cost:       ptr(12.5),
		})

		require.InDelta(t, 1.5, estimate.KWh, 1e-9)
		require.Zero(t, estimate.CO2)
		require.InDelta(t, 12.5, estimate.Cost, 1e-9)
	})

	t.Run("should work without a catalog", func(t *testing.T) {
		calc := domain.NewImpactCalculator(nil, nil)

		estimate := calc.Estimate(ctx, domain.ImpactRequest{TaskCode: "LED_REPLACE", Executions: 1})

		require.Zero(t, estimate.KWh)
		require.Empty(t, calc.CurrencySymbol())
	})
}
