package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/webnetes/webnetesctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by webnetes nodes
	ServiceType = "_webnetes._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for node discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 8080
)

// Scanner handles mDNS node discovery
type Scanner struct {
	// Timeout is the maximum time to wait for nodes
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all nodes on the local network until the timeout expires.
// Nodes announced more than once are reported once.
func (s *Scanner) Scan(ctx context.Context) ([]*Node, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	nodes := make([]*Node, 0)
	seen := make(map[string]bool)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		defer close(done)
		for entry := range entries {
			node := s.parseServiceEntry(entry)
			if node == nil || seen[node.ID] {
				continue
			}
			seen[node.ID] = true
			logging.Debug("Node discovered",
				zap.String("id", node.ID),
				zap.String("address", node.Address),
				zap.Int("port", node.Port),
			)
			nodes = append(nodes, node)
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	// the resolver closes entries once the browse context ends
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	return nodes, nil
}

// WaitForNode waits for a specific node by id
func (s *Scanner) WaitForNode(ctx context.Context, id string) (*Node, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Node, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			node := s.parseServiceEntry(entry)
			if node != nil && node.ID == id {
				found <- node
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case node := <-found:
		return node, nil
	case <-ctx.Done():
		select {
		case node := <-found:
			return node, nil
		default:
		}
		return nil, fmt.Errorf("node %s not found within %s", id, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Node.
// Returns nil if the entry has no usable address or identity.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Node {
	if entry == nil {
		return nil
	}

	// Get IP address (prefer IPv4)
	var addr string
	if len(entry.AddrIPv4) > 0 {
		addr = entry.AddrIPv4[0].String()
	}
	if addr == "" && len(entry.AddrIPv6) > 0 {
		addr = entry.AddrIPv6[0].String()
	}
	if addr == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	id := metadata["id"]
	if id == "" {
		id = entry.Instance
	}
	if id == "" {
		return nil
	}

	return &Node{
		ID:           id,
		Hostname:     entry.HostName,
		Address:      addr,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan for nodes with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Node, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}
