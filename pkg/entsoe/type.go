package entsoe

import (
	"encoding/xml"
	"fmt"
)

// Namespace of the actual total load (A65) document
const LoadDocumentNamespace = "urn:iec62325.351:tc57wg16:451-6:generationloaddocument:3:0"

// Germany, used for both in_Domain and OutBiddingZone_Domain
const BiddingZoneDE = "10Y1001A1001A83F"

const (
	DocumentTypeActualTotalLoad = "A65"
	ProcessTypeRealised         = "A16"
)

// Format of periodStart and periodEnd query parameters
const periodTimeLayout = "200601021504"

// Layouts seen in timeInterval/start, most common first
var intervalTimeLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
}

type loadDocument struct {
	XMLName    xml.Name
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	Periods []period `xml:"Period"`
}

type period struct {
	TimeInterval timeInterval `xml:"timeInterval"`
	Resolution   string       `xml:"resolution"`
	Points       []point      `xml:"Point"`
}

type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position string `xml:"position"`
	Quantity string `xml:"quantity"`
}

// ParseError is returned when a load document cannot be turned into points.
// No points are returned alongside it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entsoe: parse load document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FetchError covers transport failures and non-2xx responses.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("entsoe: fetch load (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("entsoe: fetch load: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
