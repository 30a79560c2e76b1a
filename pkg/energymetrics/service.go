package energymetrics

import "github.com/NotCoffee418/manufacturing_energy/pkg/types"

// Compose derives one EnergyRecord per load point, in load order.
// Intensity and the first price are applied to every record;
// without prices the price is 0.
func Compose(
	load []types.LoadPoint,
	co2Intensity float64,
	prices []types.PricePoint,
	factor float64,
) []types.EnergyRecord {
	records := make([]types.EnergyRecord, 0, len(load))
	if len(load) == 0 {
		return records
	}

	var price float64
	if len(prices) > 0 {
		price = prices[0].PriceEURKWh
	}

	for _, lp := range load {
		energyKWh := lp.LoadKWh * factor
		records = append(records, types.EnergyRecord{
			Timestamp:    lp.Timestamp,
			EnergyKWh:    energyKWh,
			CO2eqG:       energyKWh * co2Intensity,
			CostEUR:      energyKWh * price,
			CO2Intensity: co2Intensity,
			PriceEURKWh:  price,
		})
	}
	return records
}
