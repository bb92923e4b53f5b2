package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "webnetesctl"
	configFile = "config.yaml"
	nodeFile   = "node.yaml"
)

var (
	// Global settings instance (loaded lazily)
	globalSettings     *Settings
	globalSettingsOnce sync.Once
	globalSettingsErr  error

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/webnetesctl or $HOME/.config/webnetesctl
//   - macOS: $HOME/.config/webnetesctl (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\webnetesctl
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the settings file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// DefaultNodeConfigPath is where the node document lives unless configured
// otherwise: next to the settings file.
func DefaultNodeConfigPath() string {
	configDir, err := GetConfigDir()
	if err != nil {
		return nodeFile
	}
	return filepath.Join(configDir, nodeFile)
}

// LoadSettings loads the settings from disk.
// If the file doesn't exist, returns default settings.
// Thread-safe - multiple calls will return the same instance.
func LoadSettings() (*Settings, error) {
	globalSettingsOnce.Do(func() {
		var configPath string
		configPath, globalSettingsErr = GetConfigPath()
		if globalSettingsErr != nil {
			globalSettingsErr = fmt.Errorf("failed to get config path: %w", globalSettingsErr)
			return
		}
		globalSettings, globalSettingsErr = loadSettingsFromFile(configPath)
	})
	return globalSettings, globalSettingsErr
}

// loadSettingsFromFile performs the actual file loading.
func loadSettingsFromFile(configPath string) (*Settings, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return NewSettings(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", settings.Version, CurrentVersion)
	}

	settings.applyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return &settings, nil
}

// marshalSettings renders the settings file with its header comment
func marshalSettings(s *Settings, configPath string) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# webnetesctl Configuration File
# Settings for the node control panel and the nodes it has discovered.
# The node configuration document itself lives at node.config_path.
#
# Location: ` + configPath + `

`)
	return append(header, data...), nil
}

// Save saves the settings to the default location.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return s.SaveTo(configPath)
}

// SaveTo writes the settings atomically to configPath
func (s *Settings) SaveTo(configPath string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshalSettings(s, configPath)
	if err != nil {
		return err
	}

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// SaveGlobal saves the global settings instance to disk.
func SaveGlobal() error {
	settings, err := LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.Save()
}

// CreateDefaultConfig writes a settings file with defaults and an example
// node entry. It refuses to overwrite an existing file unless force is set.
func CreateDefaultConfig(force bool) (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return configPath, fmt.Errorf("config file already exists: %s", configPath)
	}

	settings := NewSettings()
	settings.Node.ID = "example-node"
	settings.Nodes["example-node"] = &NodeEntry{
		Nickname:   "Example Node",
		ControlURL: "ws://127.0.0.1:8080/control",
	}

	return configPath, settings.SaveTo(configPath)
}
