// Copyright 2025 The picmem Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	userAgent           = "picmem/1.0"
)

// NominatimGeocoder implements Geocoder against the OpenStreetMap
// Nominatim reverse-geocoding API.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

var _ Geocoder = (*NominatimGeocoder)(nil)

// NominatimOption configures a NominatimGeocoder.
type NominatimOption func(*NominatimGeocoder)

// WithBaseURL overrides the Nominatim endpoint. Useful for self-hosted
// instances and tests.
func WithBaseURL(baseURL string) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.httpClient = client
	}
}

// NewNominatimGeocoder creates a geocoder against the public Nominatim API.
func NewNominatimGeocoder(opts ...NominatimOption) *NominatimGeocoder {
	g := &NominatimGeocoder{
		baseURL: defaultNominatimURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Lookup resolves coordinates via GET /reverse?lat=..&lon=..&format=json.
func (g *NominatimGeocoder) Lookup(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/reverse?%s", g.baseURL, query.Encode()), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if result.Error != "" || result.DisplayName == "" {
		return "", ErrNoResult
	}

	return result.DisplayName, nil
}
