package energymetrics

import (
	"math"
	"testing"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestComposeEmptyLoad(t *testing.T) {
	prices := []types.PricePoint{{Timestamp: time.Now(), PriceEURKWh: 0.1}}
	for _, load := range [][]types.LoadPoint{nil, {}} {
		records := Compose(load, 400, prices, types.ManufacturingFactor)
		if len(records) != 0 {
			t.Fatalf("expected no records, got %d", len(records))
		}
	}
}

func TestComposeScenario(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	load := []types.LoadPoint{
		{Timestamp: start, LoadKWh: 100},
		{Timestamp: start, LoadKWh: 200},
	}
	prices := []types.PricePoint{{Timestamp: start, PriceEURKWh: 0.10}}

	records := Compose(load, 400, prices, types.ManufacturingFactor)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := []types.EnergyRecord{
		{Timestamp: start, EnergyKWh: 23, CO2eqG: 9200, CostEUR: 2.3, CO2Intensity: 400, PriceEURKWh: 0.10},
		{Timestamp: start, EnergyKWh: 46, CO2eqG: 18400, CostEUR: 4.6, CO2Intensity: 400, PriceEURKWh: 0.10},
	}
	for i, w := range want {
		got := records[i]
		if !got.Timestamp.Equal(w.Timestamp) {
			t.Errorf("record %d: timestamp %s, want %s", i, got.Timestamp, w.Timestamp)
		}
		if !almostEqual(got.EnergyKWh, w.EnergyKWh) ||
			!almostEqual(got.CO2eqG, w.CO2eqG) ||
			!almostEqual(got.CostEUR, w.CostEUR) ||
			got.CO2Intensity != w.CO2Intensity ||
			got.PriceEURKWh != w.PriceEURKWh {
			t.Errorf("record %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestComposeFormulasHoldForEveryRecord(t *testing.T) {
	base := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	load := make([]types.LoadPoint, 0, 96)
	for i := 0; i < 96; i++ {
		load = append(load, types.LoadPoint{
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			LoadKWh:   41000 + float64(i)*13.37,
		})
	}
	prices := []types.PricePoint{
		{Timestamp: base, PriceEURKWh: 0.1234},
		{Timestamp: base.Add(time.Hour), PriceEURKWh: 9.99},
	}

	records := Compose(load, 371.2, prices, types.ManufacturingFactor)
	if len(records) != len(load) {
		t.Fatalf("expected %d records, got %d", len(load), len(records))
	}
	for i, r := range records {
		if !r.Timestamp.Equal(load[i].Timestamp) {
			t.Fatalf("record %d: timestamp %s, want %s", i, r.Timestamp, load[i].Timestamp)
		}
		if !almostEqual(r.EnergyKWh, load[i].LoadKWh*0.23) {
			t.Fatalf("record %d: energy %v", i, r.EnergyKWh)
		}
		if !almostEqual(r.CO2eqG, r.EnergyKWh*r.CO2Intensity) {
			t.Fatalf("record %d: co2 %v", i, r.CO2eqG)
		}
		if !almostEqual(r.CostEUR, r.EnergyKWh*r.PriceEURKWh) {
			t.Fatalf("record %d: cost %v", i, r.CostEUR)
		}
		// Only the first price is used
		if r.PriceEURKWh != 0.1234 {
			t.Fatalf("record %d: price %v", i, r.PriceEURKWh)
		}
	}
}

func TestComposeWithoutPrices(t *testing.T) {
	load := []types.LoadPoint{{Timestamp: time.Now(), LoadKWh: 1000}}
	records := Compose(load, 250, nil, types.ManufacturingFactor)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].PriceEURKWh != 0 || records[0].CostEUR != 0 {
		t.Fatalf("expected zero price and cost, got %+v", records[0])
	}
	if !almostEqual(records[0].CO2eqG, 230*250) {
		t.Fatalf("unexpected co2 %v", records[0].CO2eqG)
	}
}

func TestComposeZeroIntensity(t *testing.T) {
	load := []types.LoadPoint{{Timestamp: time.Now(), LoadKWh: 1000}}
	prices := []types.PricePoint{{PriceEURKWh: 0.10}}
	records := Compose(load, 0, prices, types.ManufacturingFactor)
	if records[0].CO2eqG != 0 {
		t.Fatalf("expected zero co2, got %v", records[0].CO2eqG)
	}
	if !almostEqual(records[0].CostEUR, 23) {
		t.Fatalf("expected cost 23, got %v", records[0].CostEUR)
	}
}
