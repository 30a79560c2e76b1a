package electricitymaps

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const DefaultZone = "DE"

type latestResponse struct {
	Zone            string   `json:"zone"`
	CarbonIntensity *float64 `json:"carbonIntensity"`
	Datetime        string   `json:"datetime"`
}

// FetchError is returned with a zero intensity.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("electricitymaps: fetch latest (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("electricitymaps: fetch latest: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	apiURL    string
	authToken string
	client    *http.Client
}

// apiURL points at the carbon-intensity/latest endpoint
func NewClient(apiURL, authToken string) *Client {
	return &Client{
		apiURL:    apiURL,
		authToken: authToken,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchLatest returns the latest carbon intensity in gCO2eq/kWh.
// A response without carbonIntensity yields 0 and no error.
func (c *Client) FetchLatest(zone string) (float64, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return 0, &FetchError{Err: err}
	}
	q := u.Query()
	q.Set("zone", zone)
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, &FetchError{Err: err}
	}
	req.Header.Set("auth-token", c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Electricity Maps API request failed: %v", err)
		return 0, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErr := &FetchError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
		log.Printf("Electricity Maps API request failed: %v", fetchErr)
		return 0, fetchErr
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fetchErr := &FetchError{StatusCode: resp.StatusCode, Err: err}
		log.Printf("Electricity Maps API response invalid: %v", fetchErr)
		return 0, fetchErr
	}

	if body.CarbonIntensity == nil {
		log.Printf("No carbon intensity in response for zone %s", zone)
		return 0, nil
	}
	log.Printf("Carbon intensity for %s at %s: %.1f gCO2eq/kWh", zone, body.Datetime, *body.CarbonIntensity)
	return *body.CarbonIntensity, nil
}
