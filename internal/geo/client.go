// Package geo wraps an external geocoding provider. Failures here are
// transient from the caller's point of view: callers may retry, but must
// never fabricate coordinates.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tienda/internal/service/delivery"
)

var (
	ErrTransient = errors.New("geocoding unavailable")
	ErrNoResults = errors.New("no geocoding results")
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-form address to a coordinate and the provider's
// formatted address.
func (c *Client) Geocode(ctx context.Context, address string) (delivery.Coordinate, string, error) {
	params := url.Values{}
	params.Set("address", address)
	return c.lookup(ctx, params)
}

// ReverseGeocode resolves a coordinate to a formatted address.
func (c *Client) ReverseGeocode(ctx context.Context, coord delivery.Coordinate) (string, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", coord.Lat, coord.Lng))
	_, address, err := c.lookup(ctx, params)
	return address, err
}

func (c *Client) lookup(ctx context.Context, params url.Values) (delivery.Coordinate, string, error) {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return delivery.Coordinate{}, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return delivery.Coordinate{}, "", fmt.Errorf("geocoding request: %w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return delivery.Coordinate{}, "", fmt.Errorf("geocoding status %d: %w", resp.StatusCode, ErrTransient)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return delivery.Coordinate{}, "", fmt.Errorf("decode response: %w: %v", ErrTransient, err)
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		return delivery.Coordinate{}, "", fmt.Errorf("geocoding status %q: %w", result.Status, ErrNoResults)
	}

	first := result.Results[0]
	coord := delivery.Coordinate{
		Lat: first.Geometry.Location.Lat,
		Lng: first.Geometry.Location.Lng,
	}
	return coord, first.FormattedAddress, nil
}
