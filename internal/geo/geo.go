// Package geo turns picked map coordinates into a short human label via a
// Nominatim-style reverse geocoder. The lookup is best-effort: every failure
// path degrades to formatted coordinates, never to an error.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Address is the subset of the reverse-lookup response we rank.
type Address struct {
	City     string `json:"city"`
	Town     string `json:"town"`
	Village  string `json:"village"`
	Suburb   string `json:"suburb"`
	County   string `json:"county"`
	Postcode string `json:"postcode"`
}

type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FormatCoords is the final fallback label.
func FormatCoords(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

// Label reverse-geocodes the point and derives a short label using the
// priority order city, town, village, suburb, county, postcode, then a
// truncated display name. On any transport or decode failure it returns the
// formatted coordinates directly.
func (c *Client) Label(ctx context.Context, lat, lng float64) string {
	url := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%f&lon=%f", c.baseURL, lat, lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FormatCoords(lat, lng)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return FormatCoords(lat, lng)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FormatCoords(lat, lng)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return FormatCoords(lat, lng)
	}
	return shortLabel(body, lat, lng)
}

func shortLabel(r reverseResponse, lat, lng float64) string {
	for _, candidate := range []string{
		r.Address.City,
		r.Address.Town,
		r.Address.Village,
		r.Address.Suburb,
		r.Address.County,
		r.Address.Postcode,
	} {
		if candidate != "" {
			return candidate
		}
	}
	if r.DisplayName != "" {
		return truncateDisplayName(r.DisplayName)
	}
	return FormatCoords(lat, lng)
}

// truncateDisplayName keeps the first two comma-separated components of the
// full display name, which is usually "place, locality, ...".
func truncateDisplayName(name string) string {
	parts := strings.SplitN(name, ",", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}
