package lookup

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

const (
	// DefaultAddressEndpoint echoes the caller's IPv6 address as plain text
	DefaultAddressEndpoint = "https://api6.ipify.org"

	// DefaultDNSServer answers myip.opendns.com with the querying address
	DefaultDNSServer = "resolver1.opendns.com:53"

	// myIPName is the OpenDNS name that resolves to the client address
	myIPName = "myip.opendns.com."

	sourceAddress = "public_address"
)

// HTTPAddressResolver asks a plain-text echo service for the public address
type HTTPAddressResolver struct {
	client *Client
}

// NewHTTPAddressResolver creates a resolver for endpoint. An empty endpoint
// uses DefaultAddressEndpoint. The resolver never retries.
func NewHTTPAddressResolver(endpoint string) *HTTPAddressResolver {
	if endpoint == "" {
		endpoint = DefaultAddressEndpoint
	}
	return &HTTPAddressResolver{client: NewClient(endpoint)}
}

// Client exposes the HTTP client for timeout and user agent tweaks
func (r *HTTPAddressResolver) Client() *Client {
	return r.client
}

// ResolveAddress returns the address reported by the echo service
func (r *HTTPAddressResolver) ResolveAddress(ctx context.Context) (string, error) {
	body, err := r.client.GetText(ctx, sourceAddress, "", nil)
	if err != nil {
		return "", err
	}

	addr, err := netip.ParseAddr(body)
	if err != nil {
		return "", NewParseError(sourceAddress, fmt.Sprintf("response %q is not an IP address", truncate(body, 64)), err)
	}
	return addr.String(), nil
}

// DNSAddressResolver asks OpenDNS for the public address. It tries AAAA first
// and falls back to A.
type DNSAddressResolver struct {
	// Server is the resolver host:port
	Server string
	// Timeout bounds each query
	Timeout time.Duration
}

// NewDNSAddressResolver creates a resolver for server. An empty server uses
// DefaultDNSServer.
func NewDNSAddressResolver(server string) *DNSAddressResolver {
	if server == "" {
		server = DefaultDNSServer
	}
	return &DNSAddressResolver{Server: server, Timeout: DefaultTimeout}
}

// ResolveAddress returns the address the DNS server saw the query come from
func (r *DNSAddressResolver) ResolveAddress(ctx context.Context) (string, error) {
	var lastErr error
	for _, qtype := range []uint16{dns.TypeAAAA, dns.TypeA} {
		ip, err := r.query(ctx, qtype)
		if err == nil {
			return ip.String(), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (r *DNSAddressResolver) query(ctx context.Context, qtype uint16) (net.IP, error) {
	c := &dns.Client{Net: "udp", Timeout: r.Timeout}

	m := new(dns.Msg)
	m.SetQuestion(myIPName, qtype)
	m.RecursionDesired = false

	in, _, err := c.ExchangeContext(ctx, m, r.Server)
	if err != nil {
		return nil, NewNetworkError(sourceAddress, "DNS query failed", err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, &LookupError{
			Type:    ErrTypeDNS,
			Source:  sourceAddress,
			Message: fmt.Sprintf("%s query answered %s", dns.TypeToString[qtype], dns.RcodeToString[in.Rcode]),
		}
	}

	for _, rr := range in.Answer {
		switch rr := rr.(type) {
		case *dns.AAAA:
			return rr.AAAA, nil
		case *dns.A:
			return rr.A, nil
		}
	}
	return nil, NewNoMatchError(sourceAddress, fmt.Sprintf("no %s record in answer", dns.TypeToString[qtype]))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
