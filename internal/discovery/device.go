package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultControlPath is the control endpoint path when a node does not
// advertise one
const DefaultControlPath = "/control"

// Node represents a webnetes node discovered on the local network
type Node struct {
	// ID is the node id from the "id" TXT record, or the mDNS instance name
	ID string

	// Hostname is the mDNS hostname (e.g., "edge-42.local.")
	Hostname string

	// Address is the node IP address, IPv4 preferred
	Address string

	// Port is the control service port
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "id=edge-42", "path=/control", "version=0.1.0"
	Metadata map[string]string

	// DiscoveredAt is when the node was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the node
func (n *Node) String() string {
	return fmt.Sprintf("Node %s (%s) at %s", n.ID, n.Hostname, net.JoinHostPort(n.Address, strconv.Itoa(n.Port)))
}

// ControlURL returns the WebSocket control endpoint of the node
func (n *Node) ControlURL() string {
	path := n.GetMetadata("path")
	if path == "" {
		path = DefaultControlPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "ws://" + net.JoinHostPort(n.Address, strconv.Itoa(n.Port)) + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (n *Node) GetMetadata(key string) string {
	if n.Metadata == nil {
		return ""
	}
	return n.Metadata[key]
}
