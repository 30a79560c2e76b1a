package entsoe

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
)

// Client fetches actual total load for the German bidding zone.
type Client struct {
	apiURL        string
	securityToken string
	parser        Parser
	client        *http.Client
}

func NewClient(apiURL, securityToken string, parser Parser) *Client {
	return &Client{
		apiURL:        strings.TrimRight(apiURL, "/"),
		securityToken: securityToken,
		parser:        parser,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchLoad never returns nil points. On error the slice is empty.
func (c *Client) FetchLoad(start, end time.Time) ([]types.LoadPoint, error) {
	requestURL, err := c.buildURL(start, end)
	if err != nil {
		return []types.LoadPoint{}, &FetchError{Err: err}
	}
	log.Printf("Requesting ENTSO-E load: %s", redactToken(requestURL))

	resp, err := c.client.Get(requestURL)
	if err != nil {
		log.Printf("ENTSO-E API request failed: %v", err)
		return []types.LoadPoint{}, &FetchError{Err: err}
	}
	defer resp.Body.Close()
	log.Printf("ENTSO-E response status: %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("ENTSO-E API read failed: %v", err)
		return []types.LoadPoint{}, &FetchError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErr := &FetchError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
		log.Printf("ENTSO-E API request failed: %v", fetchErr)
		return []types.LoadPoint{}, fetchErr
	}

	points, err := c.parser.Parse(body)
	if err != nil {
		log.Printf("XML parsing error: %v", err)
		return []types.LoadPoint{}, err
	}

	log.Printf("Retrieved %d load points", len(points))
	return points, nil
}

func (c *Client) buildURL(start, end time.Time) (string, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("securityToken", c.securityToken)
	params.Set("documentType", DocumentTypeActualTotalLoad)
	params.Set("processType", ProcessTypeRealised)
	params.Set("in_Domain", BiddingZoneDE)
	params.Set("OutBiddingZone_Domain", BiddingZoneDE)
	params.Set("periodStart", start.UTC().Format(periodTimeLayout))
	params.Set("periodEnd", end.UTC().Format(periodTimeLayout))
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func redactToken(requestURL string) string {
	u, err := url.Parse(requestURL)
	if err != nil {
		return requestURL
	}
	q := u.Query()
	if q.Has("securityToken") {
		q.Set("securityToken", "REDACTED")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
