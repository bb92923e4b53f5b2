package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/webnetes/webnetesctl/internal/apply"
	"github.com/webnetes/webnetesctl/internal/config"
	"github.com/webnetes/webnetesctl/internal/discovery"
	"github.com/webnetes/webnetesctl/internal/lookup"
	"github.com/webnetes/webnetesctl/internal/status"
	"github.com/webnetes/webnetesctl/internal/ui"
	"github.com/webnetes/webnetesctl/internal/version"
)

// target is the node a command works on, after flag overrides
type target struct {
	NodeID     string
	Nickname   string
	ConfigPath string
	ControlURL string
}

// resolveTarget merges the persistent flags over the settings file. A node
// id picks a node saved by discover --save; an explicit control URL still
// wins over the saved one.
func resolveTarget(settings *config.Settings, nodeID, configPath, controlURL string) (target, error) {
	t := target{
		NodeID:     settings.Node.ID,
		ConfigPath: settings.Node.ConfigPath,
		ControlURL: settings.Node.ControlURL,
	}
	if nodeID != "" {
		entry := settings.GetNode(nodeID)
		if entry == nil {
			return target{}, fmt.Errorf("unknown node %q (run 'webnetesctl discover --save' first)", nodeID)
		}
		t.NodeID = nodeID
		t.ControlURL = entry.ControlURL
	}
	if entry := settings.GetNode(t.NodeID); entry != nil {
		t.Nickname = entry.Nickname
	}
	if configPath != "" {
		t.ConfigPath = configPath
	}
	if controlURL != "" {
		t.ControlURL = controlURL
	}
	return t, nil
}

// newApplier writes the node configuration file and, with a control URL,
// also pushes the document to the running node.
func newApplier(configPath, controlURL string) apply.Applier {
	file := apply.FileApplier{Path: configPath}
	if controlURL == "" {
		return file
	}
	return apply.Multi{file, apply.NewSocketApplier(controlURL)}
}

// newPipeline builds the status pipeline from the status settings
func newPipeline(st *config.StatusSettings) (*status.Pipeline, error) {
	timeout := st.LookupTimeoutDuration()
	userAgent := st.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	var resolver status.AddressResolver
	switch st.AddressSource {
	case config.AddressSourceDNS:
		r := lookup.NewDNSAddressResolver(st.DNSServer)
		r.Timeout = timeout
		resolver = r
	case config.AddressSourceHTTP:
		r := lookup.NewHTTPAddressResolver(st.AddressEndpoint)
		configureClient(r.Client(), timeout, userAgent)
		resolver = r
	default:
		return nil, fmt.Errorf("unknown address source %q", st.AddressSource)
	}

	var locator status.Locator
	switch st.LocateSource {
	case config.LocateSourceStatic:
		locator = lookup.StaticLocator{Coordinates: st.StaticCoordinates}
	case config.LocateSourceIP:
		l := lookup.NewIPLocator(st.LocateEndpoint)
		configureClient(l.Client(), timeout, userAgent)
		locator = l
	default:
		return nil, fmt.Errorf("unknown locate source %q", st.LocateSource)
	}

	geocoder := lookup.NewNominatimGeocoder(st.GeocodeEndpoint)
	configureClient(geocoder.Client(), timeout, userAgent)

	return status.NewPipeline(status.Config{
		Address:  resolver,
		Locator:  locator,
		Geocoder: geocoder,
		Defaults: st.Defaults,
	}), nil
}

func configureClient(c *lookup.Client, timeout time.Duration, userAgent string) {
	c.SetTimeout(timeout)
	c.UserAgent = userAgent
}

// nodeInfo describes the node on the status card
func nodeInfo(t target) ui.NodeInfo {
	id := t.NodeID
	if t.Nickname != "" && id != "" {
		id = fmt.Sprintf("%s (%s)", t.Nickname, id)
	}
	return ui.NodeInfo{ID: id, Components: version.Components()}
}

// nodeTable lays out discovered nodes with their saved nicknames
func nodeTable(settings *config.Settings, nodes []*discovery.Node) ([]string, [][]string) {
	header := []string{"ID", "NICKNAME", "HOST", "ADDRESS", "CONTROL URL"}
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		nickname := "-"
		if entry := settings.GetNode(n.ID); entry != nil && entry.Nickname != "" {
			nickname = entry.Nickname
		}
		rows = append(rows, []string{n.ID, nickname, n.Hostname, fmt.Sprintf("%s:%d", n.Address, n.Port), n.ControlURL()})
	}
	return header, rows
}

// panelLogPath is the log file used while the panel owns the terminal
func panelLogPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "webnetesctl.log"), nil
}

// scanFunc adapts mDNS discovery for the panel's nodes screen
func scanFunc(timeout time.Duration) func(ctx context.Context) ([]*discovery.Node, error) {
	return func(ctx context.Context) ([]*discovery.Node, error) {
		return discovery.Scan(ctx, timeout)
	}
}

// discoverTimeout returns the flag value in seconds, or the settings default
func discoverTimeout(settings *config.Settings, seconds int) time.Duration {
	if seconds <= 0 {
		seconds = settings.Preferences.DiscoverTimeout
	}
	return time.Duration(seconds) * time.Second
}
