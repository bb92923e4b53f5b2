package lookup

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/webnetes/webnetesctl/internal/status"
)

const (
	// DefaultGeocodeEndpoint is the public Nominatim instance. Its usage
	// policy requires an identifying User-Agent and at most one request per
	// second.
	DefaultGeocodeEndpoint = "https://nominatim.openstreetmap.org"

	reversePath   = "/reverse"
	sourceGeocode = "reverse_geocode"
)

// NominatimGeocoder reverse geocodes coordinates with a Nominatim server
type NominatimGeocoder struct {
	client *Client
}

// NewNominatimGeocoder creates a geocoder for endpoint. An empty endpoint uses
// DefaultGeocodeEndpoint.
func NewNominatimGeocoder(endpoint string) *NominatimGeocoder {
	if endpoint == "" {
		endpoint = DefaultGeocodeEndpoint
	}
	c := NewClient(endpoint)
	c.MaxRetries = 1
	return &NominatimGeocoder{client: c}
}

// Client exposes the HTTP client for timeout and user agent tweaks
func (g *NominatimGeocoder) Client() *Client {
	return g.client
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// ReverseGeocode returns the place at the given coordinates. Positions with
// no match, or a match outside any country, return an ErrNoMatch error.
func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, at status.Coordinates) (status.Place, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	query.Set("addressdetails", "1")

	var resp nominatimReverse
	if err := g.client.GetJSON(ctx, sourceGeocode, reversePath, query, &resp); err != nil {
		return status.Place{}, err
	}

	if resp.Error != "" {
		return status.Place{}, NewNoMatchError(sourceGeocode, resp.Error)
	}
	if resp.Address.CountryCode == "" {
		return status.Place{}, NewNoMatchError(sourceGeocode, "match has no country code")
	}

	return status.Place{
		DisplayName: resp.DisplayName,
		CountryCode: strings.ToUpper(resp.Address.CountryCode),
	}, nil
}
