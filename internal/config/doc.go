// Package config manages the webnetesctl settings file.
//
// The settings file is YAML and stores where the node configuration document
// lives, how the status card performs its lookups, and the nodes found by
// discovery. It follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/webnetesctl/config.yaml or $HOME/.config/webnetesctl/config.yaml
//   - macOS: $HOME/.config/webnetesctl/config.yaml
//   - Windows: %LOCALAPPDATA%\webnetesctl\config.yaml
//
// # Example
//
//	version: 1
//	node:
//	  id: edge-42
//	  config_path: /etc/webnetes/node.yaml
//	  control_url: ws://127.0.0.1:8080/control
//	  skip_confirmation: false
//	status:
//	  default_coordinates: {longitude: 2.2770202, latitude: 48.8589507}
//	  address_source: dns
//	  locate_source: ip
//	  lookup_timeout: 10
//	preferences:
//	  discover_timeout: 5
//
// Missing sections are filled with defaults on load. Files with a version
// other than 1 are rejected.
//
// # Thread Safety
//
// The global settings use sync.Once for safe initialization across
// goroutines. File writes are protected by a mutex and are atomic.
package config
