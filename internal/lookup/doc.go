// Package lookup implements the network collaborators of the status
// pipeline: public address resolution, device location and reverse
// geocoding.
//
// # Address
//
// HTTPAddressResolver asks a plain-text echo service (api6.ipify.org by
// default). DNSAddressResolver sends a "myip.opendns.com" query to an OpenDNS
// resolver, which works where outbound HTTPS is filtered.
//
// # Location
//
// IPLocator estimates the position from the caller's IP address.
// StaticLocator returns coordinates from the settings file.
//
// # Reverse Geocoding
//
// NominatimGeocoder calls the Nominatim /reverse endpoint. A position with no
// match yields an error satisfying errors.Is(err, ErrNoMatch).
//
// # Errors
//
// All failures are *LookupError values classified like this:
//
//	ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeNetwork  retryable
//	ErrTypeDNS                                                retryable if temporary
//	ErrTypeHTTP                                               retryable for 5xx and 429
//	ErrTypeParse, ErrTypeNoMatch                              never retried
//
// Client retries retryable failures with exponential backoff, up to
// MaxRetries extra attempts. The address resolvers never retry.
package lookup

import "github.com/webnetes/webnetesctl/internal/status"

var (
	_ status.AddressResolver = (*HTTPAddressResolver)(nil)
	_ status.AddressResolver = (*DNSAddressResolver)(nil)
	_ status.Locator         = (*IPLocator)(nil)
	_ status.Locator         = StaticLocator{}
	_ status.ReverseGeocoder = (*NominatimGeocoder)(nil)
)
