package ui

import (
	"strings"

	"github.com/webnetes/webnetesctl/internal/status"
	"github.com/webnetes/webnetesctl/internal/version"
)

// Placeholder text for fields whose lookup has not completed
const (
	Resolving = "resolving…"
	Locating  = "locating…"
	Unknown   = "unknown"
	Outdated  = "outdated"
)

// Field is one row of the status card
type Field struct {
	Key   string
	Value string
	// Pending marks values that are placeholders or known to lag
	Pending bool
}

// NodeInfo is the part of the status card that does not come from the
// enrichment pipeline.
type NodeInfo struct {
	ID         string
	Components []version.Component
}

// StatusFields turns a snapshot into the rows of the status card, in display
// order. The panel and the line-mode printer both render these rows.
func StatusFields(snap status.Snapshot, info NodeInfo) []Field {
	var fields []Field

	if info.ID != "" {
		fields = append(fields, Field{Key: "Node", Value: info.ID})
	}
	for _, c := range info.Components {
		fields = append(fields, Field{Key: c.Name, Value: c.Version})
	}

	if snap.HasPublicAddress {
		fields = append(fields, Field{Key: "Public IP", Value: snap.PublicAddress})
	} else {
		fields = append(fields, Field{Key: "Public IP", Value: Resolving, Pending: true})
	}

	fields = append(fields, locationField(snap))

	coords := Field{Key: "Coordinates", Value: snap.Coordinates.String()}
	if snap.Locating {
		coords.Value += " (" + Locating + ")"
		coords.Pending = true
	}
	fields = append(fields, coords)

	return fields
}

func locationField(snap status.Snapshot) Field {
	if !snap.HasPlace() {
		return Field{Key: "Location", Value: Resolving, Pending: true}
	}

	var parts []string
	if snap.PlaceFlag != "" {
		parts = append(parts, snap.PlaceFlag)
	}
	if snap.PlaceName != "" {
		parts = append(parts, snap.PlaceName)
	}
	value := strings.Join(parts, " ")
	if value == "" {
		value = Unknown
	}

	field := Field{Key: "Location", Value: value}
	if snap.Stale() {
		field.Value += " (" + Outdated + ")"
		field.Pending = true
	}
	return field
}
