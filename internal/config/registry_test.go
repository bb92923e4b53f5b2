package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/webnetes/webnetesctl/internal/status"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "webnetesctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'webnetesctl'", configDir)
	}

	if runtime.GOOS == "linux" && configDir != filepath.Join("/tmp/xdg-test", "webnetesctl") {
		t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME to be honored", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()

	if s.Version != 1 {
		t.Errorf("Version = %v, want 1", s.Version)
	}
	if *s.Status.Defaults != status.DefaultCoordinates {
		t.Errorf("Defaults = %v, want %v", *s.Status.Defaults, status.DefaultCoordinates)
	}
	if s.Status.AddressSource != AddressSourceHTTP || s.Status.LocateSource != LocateSourceIP {
		t.Errorf("sources = %q/%q", s.Status.AddressSource, s.Status.LocateSource)
	}
	if filepath.Base(s.Node.ConfigPath) != "node.yaml" {
		t.Errorf("ConfigPath = %q, want node.yaml default", s.Node.ConfigPath)
	}
	if s.Node.SkipConfirmation {
		t.Error("confirmation should be required by default")
	}
	if s.Nodes == nil {
		t.Error("Nodes map should be initialized")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSettingsNodes(t *testing.T) {
	s := NewSettings()

	if s.GetNode("edge-1") != nil {
		t.Error("unknown node should be nil")
	}

	first := s.EnsureNode("edge-1")
	if s.EnsureNode("edge-1") != first {
		t.Error("EnsureNode should return the existing entry")
	}

	s.SetNodeNickname("edge-1", "Rack A")
	s.UpdateNodeLastSeen("edge-1", "192.168.1.40", "ws://192.168.1.40:8080/control")
	s.UpdateNodeLastSeen("edge-1", "192.168.1.41", "")

	node := s.GetNode("edge-1")
	if node.Nickname != "Rack A" {
		t.Errorf("Nickname = %q", node.Nickname)
	}
	if node.LastAddress != "192.168.1.41" {
		t.Errorf("LastAddress = %q, want latest", node.LastAddress)
	}
	if node.ControlURL != "ws://192.168.1.40:8080/control" {
		t.Errorf("ControlURL = %q, empty update should keep it", node.ControlURL)
	}
	if node.LastSeen.IsZero() {
		t.Error("LastSeen should be set")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"dns address", func(s *Settings) { s.Status.AddressSource = AddressSourceDNS }, false},
		{"bad address source", func(s *Settings) { s.Status.AddressSource = "smtp" }, true},
		{"bad locate source", func(s *Settings) { s.Status.LocateSource = "gps" }, true},
		{"static without coordinates", func(s *Settings) { s.Status.LocateSource = LocateSourceStatic }, true},
		{"static with coordinates", func(s *Settings) {
			s.Status.LocateSource = LocateSourceStatic
			s.Status.StaticCoordinates = &status.Coordinates{Longitude: 1, Latitude: 2}
		}, false},
		{"wrong version", func(s *Settings) { s.Version = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := NewSettings()
	s.Node.ID = "edge-42"
	s.Node.ControlURL = "ws://127.0.0.1:8080/control"
	s.Status.AddressSource = AddressSourceDNS
	s.SetNodeNickname("edge-42", "Test Node")

	if err := s.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# webnetesctl Configuration File") {
		t.Error("saved file should start with the header comment")
	}
	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain")
	}

	loaded, err := loadSettingsFromFile(configPath)
	if err != nil {
		t.Fatalf("loadSettingsFromFile() error = %v", err)
	}

	if loaded.Node.ID != "edge-42" {
		t.Errorf("Node.ID = %q", loaded.Node.ID)
	}
	if loaded.Status.AddressSource != AddressSourceDNS {
		t.Errorf("AddressSource = %q", loaded.Status.AddressSource)
	}
	if *loaded.Status.Defaults != status.DefaultCoordinates {
		t.Errorf("Defaults = %v", *loaded.Status.Defaults)
	}
	if n := loaded.GetNode("edge-42"); n == nil || n.Nickname != "Test Node" {
		t.Errorf("node entry = %+v", n)
	}
}

func TestLoadSettings_Partial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\nnode:\n  id: edge-7\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := loadSettingsFromFile(configPath)
	if err != nil {
		t.Fatalf("loadSettingsFromFile() error = %v", err)
	}
	if s.Node.ID != "edge-7" {
		t.Errorf("Node.ID = %q", s.Node.ID)
	}
	if s.Status == nil || s.Status.LookupTimeout != 10 {
		t.Error("missing status section should get defaults")
	}
	if s.Preferences.DiscoverTimeout != 5 {
		t.Errorf("DiscoverTimeout = %d, want 5", s.Preferences.DiscoverTimeout)
	}
}

func TestLoadSettings_OriginDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\nstatus:\n  default_coordinates:\n    longitude: 0\n    latitude: 0\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := loadSettingsFromFile(configPath)
	if err != nil {
		t.Fatalf("loadSettingsFromFile() error = %v", err)
	}
	if s.Status.Defaults == nil || !s.Status.Defaults.IsZero() {
		t.Errorf("Defaults = %v, want the configured (0,0)", s.Status.Defaults)
	}
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unsupported version", "version: 2\n"},
		{"missing version", "node:\n  id: x\n"},
		{"malformed yaml", "version: [1\n"},
		{"invalid source", "version: 1\nstatus:\n  address_source: carrier-pigeon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := loadSettingsFromFile(configPath); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	s, err := loadSettingsFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("loadSettingsFromFile() error = %v", err)
	}
	if s.Version != CurrentVersion {
		t.Errorf("Version = %d", s.Version)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if _, err := CreateDefaultConfig(false); err == nil {
		t.Error("second call should refuse to overwrite")
	}
	if _, err := CreateDefaultConfig(true); err != nil {
		t.Errorf("forced call error = %v", err)
	}

	s, err := loadSettingsFromFile(path)
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if s.GetNode("example-node") == nil {
		t.Error("example node should be present")
	}
}
