package energydb

import (
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
)

type EnergyDbRecord struct {
	ID           int64   `db:"id"`
	RunID        string  `db:"run_id"`
	Zone         string  `db:"zone"`
	Timestamp    int64   `db:"timestamp"`
	EnergyKWh    float64 `db:"energy_kwh"`
	CO2eqG       float64 `db:"co2eq_g"`
	CostEUR      float64 `db:"cost_eur"`
	CO2Intensity float64 `db:"co2_intensity"`
	PriceEURKWh  float64 `db:"price_eur_kwh"`
	CreatedAt    int64   `db:"created_at"`
}

func (r EnergyDbRecord) ToEnergyRecord() types.EnergyRecord {
	return types.EnergyRecord{
		Timestamp:    time.Unix(r.Timestamp, 0).UTC(),
		EnergyKWh:    r.EnergyKWh,
		CO2eqG:       r.CO2eqG,
		CostEUR:      r.CostEUR,
		CO2Intensity: r.CO2Intensity,
		PriceEURKWh:  r.PriceEURKWh,
	}
}

// Per UTC day sums over stored records
type DailyTotal struct {
	DayStart    time.Time `json:"day_start"`
	EnergyKWh   float64   `json:"energy_kwh"`
	CO2eqG      float64   `json:"co2eq_g"`
	CostEUR     float64   `json:"cost_eur"`
	SampleCount uint32    `json:"sample_count"`
}
