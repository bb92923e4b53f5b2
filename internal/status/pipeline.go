package status

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/webnetes/webnetesctl/internal/logging"
	"github.com/webnetes/webnetesctl/internal/region"
)

// AddressResolver discovers the node's public network address
type AddressResolver interface {
	ResolveAddress(ctx context.Context) (string, error)
}

// Locator reports the device's current position
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// ReverseGeocoder maps coordinates to a place. Implementations return an
// error when nothing matches.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, at Coordinates) (Place, error)
}

// Config wires the lookups into a Pipeline. A nil collaborator disables the
// corresponding lookup.
type Config struct {
	Address  AddressResolver
	Locator  Locator
	Geocoder ReverseGeocoder

	// Defaults is the position shown before a locate. Nil means
	// DefaultCoordinates; (0,0) is a valid position.
	Defaults *Coordinates
}

// Pipeline runs the status lookups in the background and merges their
// results into a Store.
type Pipeline struct {
	cfg   Config
	store *Store

	mu      sync.Mutex
	ctx     context.Context
	started bool
	unwatch func()

	wg sync.WaitGroup
}

// NewPipeline creates a pipeline whose store starts at the default position
func NewPipeline(cfg Config) *Pipeline {
	start := DefaultCoordinates
	if cfg.Defaults != nil {
		start = *cfg.Defaults
	}
	return &Pipeline{
		cfg:   cfg,
		store: NewStore(NewSnapshot(start)),
	}
}

// Store returns the snapshot store for subscriptions
func (p *Pipeline) Store() *Store {
	return p.store
}

// Snapshot returns the current status
func (p *Pipeline) Snapshot() Snapshot {
	return p.store.Snapshot()
}

// Start mounts the pipeline: it attaches the reverse geocoding reaction,
// looks up the public address once and resolves the default position.
// Calling Start again has no effect.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.ctx = ctx
	p.unwatch = p.store.Watch(p.onChange)
	p.mu.Unlock()

	if p.cfg.Address != nil {
		p.wg.Add(1)
		go p.resolveAddress(ctx)
	}

	snap := p.store.Snapshot()
	p.reverse(ctx, snap.Coordinates, snap.CoordinatesRevision)
}

// Locate asks the locator for the device position. Locating is set
// immediately; the coordinates and Locating are written together when the
// lookup finishes. A failed lookup writes (0, 0). Calls may overlap, in which
// case the last one to finish wins.
func (p *Pipeline) Locate(ctx context.Context) {
	if p.cfg.Locator == nil {
		return
	}

	p.store.Update(func(s *Snapshot) {
		s.Locating = true
	})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		at, err := p.cfg.Locator.Locate(ctx)
		if err != nil {
			logging.LogLookup("locate", "failed", zap.Error(err))
			p.store.Update(func(s *Snapshot) {
				s.SetCoordinates(Coordinates{})
				s.Locating = false
			})
			return
		}

		logging.LogLookup("locate", "resolved",
			zap.Float64("longitude", at.Longitude),
			zap.Float64("latitude", at.Latitude),
		)
		p.store.Update(func(s *Snapshot) {
			s.SetCoordinates(at)
			s.Locating = false
		})
	}()
}

// Wait blocks until every lookup started so far has finished
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Stop detaches the reverse geocoding reaction. Lookups already running
// still complete and write their results.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unwatch != nil {
		p.unwatch()
		p.unwatch = nil
	}
}

func (p *Pipeline) onChange(prev, next Snapshot) {
	if next.CoordinatesRevision == prev.CoordinatesRevision {
		return
	}

	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()

	p.reverse(ctx, next.Coordinates, next.CoordinatesRevision)
}

func (p *Pipeline) resolveAddress(ctx context.Context) {
	defer p.wg.Done()

	addr, err := p.cfg.Address.ResolveAddress(ctx)
	if err != nil {
		logging.LogLookup("public_address", "failed", zap.Error(err))
		return
	}

	logging.LogLookup("public_address", "resolved", zap.String("address", addr))
	p.store.Update(func(s *Snapshot) {
		s.PublicAddress = addr
		s.HasPublicAddress = true
	})
}

func (p *Pipeline) reverse(ctx context.Context, at Coordinates, revision uint64) {
	if p.cfg.Geocoder == nil {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		place, err := p.cfg.Geocoder.ReverseGeocode(ctx, at)
		if err != nil {
			logging.LogLookup("reverse_geocode", "failed",
				zap.Stringer("coordinates", at),
				zap.Error(err),
			)
			return
		}

		r, ok := region.Lookup(place.CountryCode)
		if !ok {
			logging.LogLookup("reverse_geocode", "unrecognized_region",
				zap.Stringer("coordinates", at),
				zap.String("country_code", place.CountryCode),
			)
			return
		}

		name := place.DisplayName
		if name == "" {
			name = r.Name
		}

		logging.LogLookup("reverse_geocode", "resolved",
			zap.Uint64("revision", revision),
			zap.String("region", r.Code),
			zap.String("country", r.Name),
		)
		p.store.Update(func(s *Snapshot) {
			if revision < s.PlaceRevision {
				return
			}
			s.PlaceName = name
			s.PlaceFlag = r.Flag
			s.PlaceRevision = revision
		})
	}()
}
