package status

import "fmt"

// DefaultCoordinates is where the status card points before the device has
// been located.
var DefaultCoordinates = Coordinates{Longitude: 2.2770202, Latitude: 48.8589507}

// Coordinates is a position in degrees. Longitude comes first, matching the
// order the status card shows.
type Coordinates struct {
	Longitude float64 `yaml:"longitude" json:"longitude"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
}

// String formats the pair as "lon, lat"
func (c Coordinates) String() string {
	return fmt.Sprintf("%.7f, %.7f", c.Longitude, c.Latitude)
}

// IsZero reports whether both components are 0, the value written after a
// failed locate.
func (c Coordinates) IsZero() bool {
	return c.Longitude == 0 && c.Latitude == 0
}

// Place is a reverse geocoding match
type Place struct {
	DisplayName string
	CountryCode string
}

// Snapshot is the status shown by the panel. Fields are grouped: coordinates
// and Locating are written together when a locate completes, and the place
// fields are always written together.
type Snapshot struct {
	PublicAddress    string
	HasPublicAddress bool

	Coordinates         Coordinates
	CoordinatesRevision uint64
	Locating            bool

	PlaceName string
	PlaceFlag string
	// PlaceRevision is the coordinates revision the place was resolved for.
	// Zero means no place has been resolved yet.
	PlaceRevision uint64
}

// NewSnapshot returns the mount-time snapshot for the given default position
func NewSnapshot(defaults Coordinates) Snapshot {
	return Snapshot{
		Coordinates:         defaults,
		CoordinatesRevision: 1,
	}
}

// SetCoordinates writes the coordinates and starts a new revision, even when
// the value did not change.
func (s *Snapshot) SetCoordinates(c Coordinates) {
	s.Coordinates = c
	s.CoordinatesRevision++
}

// HasPlace reports whether a place name has ever been resolved
func (s Snapshot) HasPlace() bool {
	return s.PlaceRevision != 0
}

// Stale reports whether the place fields describe an earlier position than
// the current coordinates.
func (s Snapshot) Stale() bool {
	return s.PlaceRevision != s.CoordinatesRevision
}
