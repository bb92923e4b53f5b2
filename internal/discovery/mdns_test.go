package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantID   string
		wantAddr string
		wantPort int
	}{
		{
			name: "id from TXT record",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "webnetes node"},
				HostName:      "edge-42.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.40")},
				Text:          []string{"id=edge-42", "path=/control"},
			},
			wantID:   "edge-42",
			wantAddr: "192.168.1.40",
			wantPort: 8080,
		},
		{
			name: "id from instance name",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "edge-7"},
				HostName:      "edge-7.local.",
				Port:          9000,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.7")},
			},
			wantID:   "edge-7",
			wantAddr: "10.0.0.7",
			wantPort: 9000,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.8")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::8")},
			},
			wantID:   "dual",
			wantAddr: "10.0.0.8",
			wantPort: 8080,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::9")},
			},
			wantID:   "v6",
			wantAddr: "fe80::9",
			wantPort: 8080,
		},
		{
			name: "default port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "noport"},
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.10")},
			},
			wantID:   "noport",
			wantAddr: "10.0.0.10",
			wantPort: DefaultPort,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				Port:          8080,
			},
			wantNil: true,
		},
		{
			name: "no identity",
			entry: &zeroconf.ServiceEntry{
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.11")},
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if node != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", node)
				}
				return
			}
			if node == nil {
				t.Fatal("parseServiceEntry() = nil, want node")
			}
			if node.ID != tt.wantID {
				t.Errorf("node.ID = %v, want %v", node.ID, tt.wantID)
			}
			if node.Address != tt.wantAddr {
				t.Errorf("node.Address = %v, want %v", node.Address, tt.wantAddr)
			}
			if node.Port != tt.wantPort {
				t.Errorf("node.Port = %v, want %v", node.Port, tt.wantPort)
			}
			if time.Since(node.DiscoveredAt) > time.Second {
				t.Errorf("node.DiscoveredAt is not recent: %v", node.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "edge-42"},
		Port:          8080,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.40")},
		Text:          []string{"path=/control", "version=0.1.0", "tls", "note=a=b"},
	}

	node := scanner.parseServiceEntry(entry)
	if node == nil {
		t.Fatal("parseServiceEntry() = nil, want node")
	}

	expectedMetadata := map[string]string{
		"path":    "/control",
		"version": "0.1.0",
		"tls":     "", // Key without value
		"note":    "a=b",
	}

	if len(node.Metadata) != len(expectedMetadata) {
		t.Errorf("node.Metadata has %d entries, want %d", len(node.Metadata), len(expectedMetadata))
	}
	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := node.Metadata[key]; !ok {
			t.Errorf("node.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("node.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}

	if node.ControlURL() != "ws://192.168.1.40:8080/control" {
		t.Errorf("ControlURL() = %q", node.ControlURL())
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}
