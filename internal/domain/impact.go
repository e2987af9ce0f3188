package domain

import (
	"context"

	"github.com/davidbz/skill4green/internal/observability"
)

// ImpactConfig contains the business factors used to derive emissions and cost.
type ImpactConfig struct {
	EmissionFactor float64 `env:"EMISSION_FACTOR" envDefault:"0.084"` // kg CO2 per kWh
	Tariff         float64 `env:"TARIFF_KWH"      envDefault:"0.95"`  // currency per kWh
	CurrencySymbol string  `env:"CURRENCY_SYMBOL" envDefault:"R$"`
}

// ImpactCalculator derives energy, emissions and cost from task executions.
type ImpactCalculator struct {
	catalog TaskCatalog
	config  ImpactConfig
}

// NewImpactCalculator creates a new impact calculator.
func NewImpactCalculator(catalog TaskCatalog, cfg *ImpactConfig) *ImpactCalculator {
	calc := &ImpactCalculator{
		catalog: catalog,
	}
	if cfg != nil {
		calc.config = *cfg
	}
	return calc
}

// Estimate computes the impact of a request, honoring caller overrides.
// Unknown tasks save 0 kWh per execution.
func (c *ImpactCalculator) Estimate(ctx context.Context, req ImpactRequest) ImpactEstimate {
	perExecution := 0.0
	if c.catalog != nil {
		task, err := c.catalog.GetTask(ctx, req.TaskCode)
		if err != nil {
			observability.FromContext(ctx).Debug("task not in catalog, assuming zero savings",
				observability.String("task_code", req.TaskCode))
		} else {
			perExecution = task.KWhPerExecution
		}
	}

	kwh := perExecution * float64(max(req.Executions, 1))
	if req.KWh != nil && *req.KWh > 0 {
		kwh = *req.KWh
	}

	co2 := kwh * c.config.EmissionFactor
	if req.CO2 != nil {
		co2 = *req.CO2
	}

	cost := kwh * c.config.Tariff
	if req.Cost != nil {
		cost = *req.Cost
	}

	return ImpactEstimate{
		KWh:  kwh,
		CO2:  co2,
		Cost: cost,
	}
}

// CurrencySymbol returns the symbol used when presenting costs.
func (c *ImpactCalculator) CurrencySymbol() string {
	return c.config.CurrencySymbol
}
