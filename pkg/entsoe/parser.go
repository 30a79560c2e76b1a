package entsoe

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
)

var resolutionPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)

type Parser struct {
	// When false every point gets its period's start time
	AdvanceByResolution bool
}

// Parse reads a load document with the default Parser.
func Parse(data []byte) ([]types.LoadPoint, error) {
	return Parser{}.Parse(data)
}

// Parse returns one LoadPoint per Point element in document order.
// Documents outside the load namespace yield no points.
func (p Parser) Parse(data []byte) ([]types.LoadPoint, error) {
	var doc loadDocument
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		return []types.LoadPoint{}, &ParseError{Err: err}
	}
	if doc.XMLName.Space != LoadDocumentNamespace {
		return []types.LoadPoint{}, nil
	}

	loadPoints := []types.LoadPoint{}
	for _, ts := range doc.TimeSeries {
		for _, per := range ts.Periods {
			points, err := p.parsePeriod(per)
			if err != nil {
				return []types.LoadPoint{}, &ParseError{Err: err}
			}
			loadPoints = append(loadPoints, points...)
		}
	}
	return loadPoints, nil
}

func (p Parser) parsePeriod(per period) ([]types.LoadPoint, error) {
	start, err := parseIntervalTime(per.TimeInterval.Start)
	if err != nil {
		return nil, err
	}

	var resolution time.Duration
	if p.AdvanceByResolution {
		if resolution, err = parseResolution(per.Resolution); err != nil {
			return nil, err
		}
	}

	points := make([]types.LoadPoint, 0, len(per.Points))
	for i, pt := range per.Points {
		quantity, err := strconv.ParseFloat(strings.TrimSpace(pt.Quantity), 64)
		if err != nil {
			return nil, fmt.Errorf("point %d quantity %q: %w", i+1, pt.Quantity, err)
		}

		timestamp := start
		if p.AdvanceByResolution {
			position := i + 1
			if raw := strings.TrimSpace(pt.Position); raw != "" {
				if position, err = strconv.Atoi(raw); err != nil || position < 1 {
					return nil, fmt.Errorf("point %d position %q is invalid", i+1, pt.Position)
				}
			}
			timestamp = start.Add(time.Duration(position-1) * resolution)
		}

		points = append(points, types.LoadPoint{
			Timestamp: timestamp,
			LoadKWh:   quantity,
		})
	}
	return points, nil
}

func parseIntervalTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range intervalTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("period start %q is not a valid time", value)
}

// Only the day/hour/minute subset of ISO 8601 durations is used by ENTSO-E
func parseResolution(value string) (time.Duration, error) {
	m := resolutionPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, fmt.Errorf("resolution %q is not supported", value)
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	var resolution time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("resolution %q: %w", value, err)
		}
		resolution += time.Duration(n) * unit
	}
	if resolution <= 0 {
		return 0, fmt.Errorf("resolution %q is not positive", value)
	}
	return resolution, nil
}
