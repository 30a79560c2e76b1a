package collector

import (
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
)

const (
	SourceLoad      = "entsoe_load"
	SourceIntensity = "electricitymaps_intensity"
	SourcePrice     = "epex_price"
)

// Run outcomes
const (
	OutcomeWritten = "written"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

type LoadSource interface {
	FetchLoad(start, end time.Time) ([]types.LoadPoint, error)
}

type IntensitySource interface {
	FetchLatest(zone string) (float64, error)
}

type PriceSource interface {
	FetchPrices(start, end time.Time) ([]types.PricePoint, error)
}

// Sink persists one batch atomically.
type Sink interface {
	Write(batch types.EnergyBatch) error
}

type Recorder interface {
	ObserveFetch(source string, err error)
	ObserveRun(outcome string, written int, duration time.Duration)
}

type Result struct {
	RunID   string
	Start   time.Time
	End     time.Time
	Outcome string
	Written int
	Err     error
}
