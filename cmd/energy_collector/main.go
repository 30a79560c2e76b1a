// Collects the last week of load, carbon intensity and price data
// and stores the derived manufacturing energy records.
// Meant to be triggered by an external scheduler.
package main

import (
	"fmt"
	"log"

	"github.com/NotCoffee418/manufacturing_energy/pkg/collector"
	"github.com/NotCoffee418/manufacturing_energy/pkg/config"
	"github.com/NotCoffee418/manufacturing_energy/pkg/electricitymaps"
	"github.com/NotCoffee418/manufacturing_energy/pkg/energydb"
	"github.com/NotCoffee418/manufacturing_energy/pkg/entsoe"
	"github.com/NotCoffee418/manufacturing_energy/pkg/epex"
	"github.com/NotCoffee418/manufacturing_energy/pkg/influxsink"
	"github.com/NotCoffee418/manufacturing_energy/pkg/pathing"
	"github.com/NotCoffee418/manufacturing_energy/pkg/runmetrics"
)

const daysToCollect = 7

type closableSink interface {
	collector.Sink
	Close() error
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}
	if err := config.LoadCollectorConfig(); err != nil {
		log.Fatalf("Failed to load energy collector config: %v", err)
	}
	cfg := config.ActiveCollectorConfig

	// Storage must be reachable before anything is collected
	sink, err := openSink(cfg.Storage)
	if err != nil {
		log.Fatalf("Storage connection failed: %v", err)
	}
	defer sink.Close()

	recorder := runmetrics.New()
	c := collector.New(
		entsoe.NewClient(
			cfg.Entsoe.APIURL,
			cfg.Credentials.EntsoeAPIKey,
			entsoe.Parser{AdvanceByResolution: cfg.Entsoe.AdvanceByResolution},
		),
		electricitymaps.NewClient(cfg.ElectricityMaps.APIURL, cfg.Credentials.ElectricityMapsAPIKey),
		epex.NewStub(cfg.Price.FixedPriceEURKWh),
		sink,
		collector.WithZone(electricitymaps.DefaultZone),
		collector.WithRecorder(recorder),
	)

	result := c.Run(daysToCollect)
	log.Printf("Run %s finished: outcome=%s written=%d", result.RunID, result.Outcome, result.Written)

	if cfg.Metrics.PushgatewayURL != "" {
		if err := recorder.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName); err != nil {
			log.Printf("Failed to push run metrics: %v", err)
		}
	}
}

func openSink(cfg config.StorageConfig) (closableSink, error) {
	switch cfg.Backend {
	case config.StorageBackendInfluxDB:
		sink, err := influxsink.Open(influxsink.Config{
			Address:  cfg.InfluxAddress,
			Database: cfg.InfluxDatabase,
			Username: cfg.InfluxUsername,
			Password: cfg.InfluxPassword,
		})
		if err != nil {
			return nil, err
		}
		return sink, nil
	case config.StorageBackendSQLite, "":
		store, err := energydb.Open(pathing.GetEnergyDbPath())
		if err != nil {
			return nil, err
		}
		log.Printf("Connected to energy database at %s", pathing.GetEnergyDbPath())
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
