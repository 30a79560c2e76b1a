// Writes energy batches to an InfluxDB 1.x database.
package influxsink

import (
	"fmt"
	"log"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
	client "github.com/influxdata/influxdb1-client/v2"
)

const pingTimeout = 5 * time.Second

type Config struct {
	Address  string
	Database string
	Username string
	Password string
}

type Sink struct {
	client   client.Client
	database string
}

// Open fails when the server does not answer a ping.
func Open(cfg Config) (*Sink, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("influxsink: new client: %w", err)
	}

	_, version, err := c.Ping(pingTimeout)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("influxsink: ping %s: %w", cfg.Address, err)
	}
	log.Printf("Connected to InfluxDB %s at %s", version, cfg.Address)

	return &Sink{client: c, database: cfg.Database}, nil
}

// Write sends the batch in a single request.
func (s *Sink) Write(batch types.EnergyBatch) error {
	if len(batch.Records) == 0 {
		return nil
	}

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  s.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("influxsink: new batch: %w", err)
	}

	// Empty tag values are not valid line protocol
	tags := map[string]string{}
	if batch.RunID != "" {
		tags["run_id"] = batch.RunID
	}
	if batch.Zone != "" {
		tags["zone"] = batch.Zone
	}
	for _, record := range batch.Records {
		pt, err := client.NewPoint(types.EnergyMeasurement, tags, record.Fields(), record.Timestamp)
		if err != nil {
			return fmt.Errorf("influxsink: new point: %w", err)
		}
		bp.AddPoint(pt)
	}

	if err := s.client.Write(bp); err != nil {
		return fmt.Errorf("influxsink: write %d points: %w", len(batch.Records), err)
	}
	return nil
}

func (s *Sink) Close() error {
	return s.client.Close()
}
