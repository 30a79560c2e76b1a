package collector

import (
	"fmt"
	"log"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/energymetrics"
	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
	"github.com/google/uuid"
)

type Collector struct {
	load      LoadSource
	intensity IntensitySource
	price     PriceSource
	sink      Sink
	recorder  Recorder

	zone   string
	factor float64
	now    func() time.Time
}

type Option func(*Collector)

// WithRecorder reports fetch and run outcomes.
func WithRecorder(recorder Recorder) Option {
	return func(c *Collector) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

func WithZone(zone string) Option {
	return func(c *Collector) {
		if zone != "" {
			c.zone = zone
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		if now != nil {
			c.now = now
		}
	}
}

func New(load LoadSource, intensity IntensitySource, price PriceSource, sink Sink, opts ...Option) *Collector {
	c := &Collector{
		load:      load,
		intensity: intensity,
		price:     price,
		sink:      sink,
		recorder:  noopRecorder{},
		zone:      "DE",
		factor:    types.ManufacturingFactor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run collects the last daysToCollect whole days and writes them as one batch.
// Failures are logged and reported in the Result, never returned or raised.
func (c *Collector) Run(daysToCollect int) (result Result) {
	began := time.Now()
	result.RunID = uuid.NewString()
	result.Start, result.End = Window(c.now(), daysToCollect)

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = OutcomeFailed
			result.Written = 0
			result.Err = fmt.Errorf("collector: run panicked: %v", r)
		}
		if result.Err != nil {
			log.Printf("Data collection and storage failed: %v", result.Err)
		}
		c.recorder.ObserveRun(result.Outcome, result.Written, time.Since(began))
	}()

	log.Printf("Requesting data from %s to %s (run %s)",
		result.Start.Format(time.RFC3339Nano), result.End.Format(time.RFC3339Nano), result.RunID)

	records := c.collect(result.Start, result.End)
	if len(records) == 0 {
		log.Println("Warning: No data points to write")
		result.Outcome = OutcomeEmpty
		return result
	}

	batch := types.EnergyBatch{
		RunID:   result.RunID,
		Zone:    c.zone,
		Records: records,
	}
	if err := c.sink.Write(batch); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("collector: write %d records: %w", len(records), err)
		return result
	}

	result.Outcome = OutcomeWritten
	result.Written = len(records)
	log.Printf("Successfully wrote %d data points", len(records))
	return result
}

// Fetch failures degrade to zero intensity or empty series.
func (c *Collector) collect(start, end time.Time) []types.EnergyRecord {
	co2Intensity, err := c.intensity.FetchLatest(c.zone)
	c.recorder.ObserveFetch(SourceIntensity, err)
	if err != nil {
		log.Printf("Continuing with zero carbon intensity: %v", err)
		co2Intensity = 0
	}

	loadPoints, err := c.load.FetchLoad(start, end)
	c.recorder.ObserveFetch(SourceLoad, err)
	if err != nil {
		log.Printf("Continuing without load points: %v", err)
		loadPoints = nil
	}

	prices, err := c.price.FetchPrices(start, end)
	c.recorder.ObserveFetch(SourcePrice, err)
	if err != nil {
		log.Printf("Continuing without prices: %v", err)
		prices = nil
	}

	return energymetrics.Compose(loadPoints, co2Intensity, prices, c.factor)
}

type noopRecorder struct{}

func (noopRecorder) ObserveFetch(string, error)            {}
func (noopRecorder) ObserveRun(string, int, time.Duration) {}
