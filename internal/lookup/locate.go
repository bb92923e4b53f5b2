package lookup

import (
	"context"
	"errors"

	"github.com/webnetes/webnetesctl/internal/status"
)

const (
	// DefaultLocateEndpoint is an IP geolocation service
	DefaultLocateEndpoint = "https://ipapi.co"

	locatePath   = "/json/"
	sourceLocate = "locate"
)

// ErrNoStaticCoordinates is returned by a StaticLocator without coordinates
var ErrNoStaticCoordinates = errors.New("no static coordinates configured")

// IPLocator estimates the device position from its public IP address
type IPLocator struct {
	client *Client
}

// NewIPLocator creates a locator for endpoint. An empty endpoint uses
// DefaultLocateEndpoint.
func NewIPLocator(endpoint string) *IPLocator {
	if endpoint == "" {
		endpoint = DefaultLocateEndpoint
	}
	c := NewClient(endpoint)
	c.MaxRetries = 2
	return &IPLocator{client: c}
}

// Client exposes the HTTP client for timeout and user agent tweaks
func (l *IPLocator) Client() *Client {
	return l.client
}

type ipLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// Locate returns the coordinates reported for the caller's address
func (l *IPLocator) Locate(ctx context.Context) (status.Coordinates, error) {
	var loc ipLocation
	if err := l.client.GetJSON(ctx, sourceLocate, locatePath, nil, &loc); err != nil {
		return status.Coordinates{}, err
	}

	if loc.Error {
		reason := loc.Reason
		if reason == "" {
			reason = "service reported an error"
		}
		return status.Coordinates{}, NewNoMatchError(sourceLocate, reason)
	}
	if loc.Latitude == nil || loc.Longitude == nil {
		return status.Coordinates{}, NewParseError(sourceLocate, "response has no coordinates", nil)
	}

	return status.Coordinates{Longitude: *loc.Longitude, Latitude: *loc.Latitude}, nil
}

// StaticLocator returns fixed coordinates, for nodes whose position is known
type StaticLocator struct {
	Coordinates *status.Coordinates
}

// Locate returns the configured coordinates
func (l StaticLocator) Locate(ctx context.Context) (status.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return status.Coordinates{}, err
	}
	if l.Coordinates == nil {
		return status.Coordinates{}, ErrNoStaticCoordinates
	}
	return *l.Coordinates, nil
}
