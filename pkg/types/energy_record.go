package types

import (
	"encoding/json"
	"time"
)

// Measurement name used for every stored energy record
const EnergyMeasurement = "manufacturing_energy"

// Fraction of grid load attributed to the monitored manufacturing process
const ManufacturingFactor = 0.23

type LoadPoint struct {
	Timestamp time.Time `json:"timestamp"`
	LoadKWh   float64   `json:"load_kwh"`
}

type PricePoint struct {
	Timestamp   time.Time `json:"timestamp"`
	PriceEURKWh float64   `json:"price_eur_kwh"`
}

type EnergyRecord struct {
	Timestamp time.Time `json:"timestamp"`

	// Derived from load
	EnergyKWh float64 `json:"energy_kwh"`
	CO2eqG    float64 `json:"co2eq_g"`
	CostEUR   float64 `json:"cost_eur"`

	// Broadcast inputs
	CO2Intensity float64 `json:"co2_intensity"`
	PriceEURKWh  float64 `json:"price_eur_kwh"`
}

// Fields returns the record's field set keyed by stored field name.
func (r EnergyRecord) Fields() map[string]interface{} {
	return map[string]interface{}{
		"energy_kwh":    r.EnergyKWh,
		"co2eq_g":       r.CO2eqG,
		"cost_eur":      r.CostEUR,
		"co2_intensity": r.CO2Intensity,
		"price_eur_kwh": r.PriceEURKWh,
	}
}

// EnergyBatch is everything one collection run hands to a sink
type EnergyBatch struct {
	RunID   string         `json:"run_id"`
	Zone    string         `json:"zone"`
	Records []EnergyRecord `json:"records"`
}

func (b EnergyBatch) ToJsonBytes() []byte {
	if b.Records == nil {
		b.Records = []EnergyRecord{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return []byte("{}")
	}
	return data
}
