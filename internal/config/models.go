package config

import (
	"fmt"
	"time"

	"github.com/webnetes/webnetesctl/internal/status"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// Address and locate sources
const (
	AddressSourceHTTP = "http"
	AddressSourceDNS  = "dns"

	LocateSourceIP     = "ip"
	LocateSourceStatic = "static"
)

// Settings represents the entire user configuration file
type Settings struct {
	Version     int                   `yaml:"version"`
	Node        *NodeSettings         `yaml:"node,omitempty"`
	Status      *StatusSettings       `yaml:"status,omitempty"`
	Nodes       map[string]*NodeEntry `yaml:"nodes,omitempty"` // Keyed by node id
	Preferences *Preferences          `yaml:"preferences,omitempty"`
}

// NodeSettings describes the local node this panel controls
type NodeSettings struct {
	ID         string `yaml:"id,omitempty"`          // Shown as "You are:" on the status card
	ConfigPath string `yaml:"config_path,omitempty"` // Node configuration document
	ControlURL string `yaml:"control_url,omitempty"` // WebSocket control endpoint, optional

	// SkipConfirmation lets the standalone editor discard without asking
	SkipConfirmation bool `yaml:"skip_confirmation"`
}

// StatusSettings configures the status card lookups
type StatusSettings struct {
	Defaults          *status.Coordinates `yaml:"default_coordinates"`
	AddressSource     string              `yaml:"address_source"`               // "http" or "dns"
	AddressEndpoint   string              `yaml:"address_endpoint,omitempty"`   // Echo service for "http"
	DNSServer         string              `yaml:"dns_server,omitempty"`         // Resolver for "dns"
	LocateSource      string              `yaml:"locate_source"`                // "ip" or "static"
	LocateEndpoint    string              `yaml:"locate_endpoint,omitempty"`    // Geolocation service for "ip"
	StaticCoordinates *status.Coordinates `yaml:"static_coordinates,omitempty"` // Position for "static"
	GeocodeEndpoint   string              `yaml:"geocode_endpoint,omitempty"`   // Nominatim server
	LookupTimeout     int                 `yaml:"lookup_timeout"`               // Seconds
	UserAgent         string              `yaml:"user_agent,omitempty"`
}

// NodeEntry is a node seen on the local network
type NodeEntry struct {
	Nickname    string    `yaml:"nickname,omitempty"`
	ControlURL  string    `yaml:"control_url,omitempty"`
	LastAddress string    `yaml:"last_address,omitempty"`
	LastSeen    time.Time `yaml:"last_seen,omitempty"`
}

// Preferences represents application-wide user preferences
type Preferences struct {
	LogLevel        string `yaml:"log_level,omitempty"`
	DiscoverTimeout int    `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
}

// NewSettings creates Settings with default values
func NewSettings() *Settings {
	s := &Settings{Version: CurrentVersion}
	s.applyDefaults()
	return s
}

// applyDefaults fills sections and fields missing from a loaded file
func (s *Settings) applyDefaults() {
	if s.Node == nil {
		s.Node = &NodeSettings{}
	}
	if s.Node.ConfigPath == "" {
		s.Node.ConfigPath = DefaultNodeConfigPath()
	}

	if s.Status == nil {
		s.Status = &StatusSettings{}
	}
	st := s.Status
	if st.Defaults == nil {
		defaults := status.DefaultCoordinates
		st.Defaults = &defaults
	}
	if st.AddressSource == "" {
		st.AddressSource = AddressSourceHTTP
	}
	if st.LocateSource == "" {
		st.LocateSource = LocateSourceIP
	}
	if st.LookupTimeout <= 0 {
		st.LookupTimeout = 10
	}

	if s.Nodes == nil {
		s.Nodes = make(map[string]*NodeEntry)
	}
	if s.Preferences == nil {
		s.Preferences = &Preferences{}
	}
	if s.Preferences.DiscoverTimeout <= 0 {
		s.Preferences.DiscoverTimeout = 5
	}
}

// Validate checks the enumerated fields
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	switch s.Status.AddressSource {
	case AddressSourceHTTP, AddressSourceDNS:
	default:
		return fmt.Errorf("invalid status.address_source %q (expected %q or %q)",
			s.Status.AddressSource, AddressSourceHTTP, AddressSourceDNS)
	}
	switch s.Status.LocateSource {
	case LocateSourceIP:
	case LocateSourceStatic:
		if s.Status.StaticCoordinates == nil {
			return fmt.Errorf("status.locate_source is %q but status.static_coordinates is not set", LocateSourceStatic)
		}
	default:
		return fmt.Errorf("invalid status.locate_source %q (expected %q or %q)",
			s.Status.LocateSource, LocateSourceIP, LocateSourceStatic)
	}
	return nil
}

// LookupTimeoutDuration returns the lookup timeout as a duration
func (s *StatusSettings) LookupTimeoutDuration() time.Duration {
	return time.Duration(s.LookupTimeout) * time.Second
}

// GetNode retrieves a known node by id. Returns nil if unknown.
func (s *Settings) GetNode(id string) *NodeEntry {
	return s.Nodes[id]
}

// EnsureNode ensures a node entry exists and returns it
func (s *Settings) EnsureNode(id string) *NodeEntry {
	if s.Nodes == nil {
		s.Nodes = make(map[string]*NodeEntry)
	}
	if node, exists := s.Nodes[id]; exists {
		return node
	}
	node := &NodeEntry{}
	s.Nodes[id] = node
	return node
}

// UpdateNodeLastSeen records a discovery of the node
func (s *Settings) UpdateNodeLastSeen(id, address, controlURL string) {
	node := s.EnsureNode(id)
	node.LastSeen = time.Now()
	node.LastAddress = address
	if controlURL != "" {
		node.ControlURL = controlURL
	}
}

// SetNodeNickname sets a user-friendly nickname for a node
func (s *Settings) SetNodeNickname(id, nickname string) {
	s.EnsureNode(id).Nickname = nickname
}
