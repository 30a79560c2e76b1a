// Placeholder for EPEX SPOT day-ahead prices.
package epex

import (
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
)

const DefaultPriceEURKWh = 0.10

// Stub returns one fixed price covering the whole window.
type Stub struct {
	PriceEURKWh float64
}

func NewStub(price float64) *Stub {
	return &Stub{PriceEURKWh: price}
}

func (s *Stub) FetchPrices(start, _ time.Time) ([]types.PricePoint, error) {
	// TODO: replace with the EPEX SPOT day-ahead API once credentials are available.
	return []types.PricePoint{{
		Timestamp:   start,
		PriceEURKWh: s.PriceEURKWh,
	}}, nil
}
