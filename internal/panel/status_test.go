package panel

import (
	"context"
	"strings"
	"testing"

	"github.com/webnetes/webnetesctl/internal/status"
	"github.com/webnetes/webnetesctl/internal/ui"
)

type fixedAddress string

func (f fixedAddress) ResolveAddress(ctx context.Context) (string, error) {
	return string(f), nil
}

type fixedLocator status.Coordinates

func (f fixedLocator) Locate(ctx context.Context) (status.Coordinates, error) {
	return status.Coordinates(f), nil
}

type fixedGeocoder struct{}

func (fixedGeocoder) ReverseGeocode(ctx context.Context, at status.Coordinates) (status.Place, error) {
	return status.Place{DisplayName: "Paris, France", CountryCode: "FR"}, nil
}

func TestStatusModel_FollowsPipeline(t *testing.T) {
	pipeline := status.NewPipeline(status.Config{
		Address:  fixedAddress("2001:db8::1"),
		Locator:  fixedLocator{Longitude: 13.4, Latitude: 52.5},
		Geocoder: fixedGeocoder{},
	})
	m := NewStatusModel(context.Background(), pipeline, ui.NodeInfo{ID: "edge-42"})
	defer m.Close()

	if !strings.Contains(m.View(), "Connected!") {
		t.Error("card should show the connected title")
	}
	if !strings.Contains(m.View(), ui.Resolving) {
		t.Error("card should show placeholders before lookups finish")
	}

	m.Init()
	pipeline.Wait()

	// coalesced subscription delivers the latest snapshot
	m, _ = m.Update(waitForSnapshot(m.updates)())

	if !m.Snapshot.HasPublicAddress || m.Snapshot.PublicAddress != "2001:db8::1" {
		t.Errorf("PublicAddress = %q", m.Snapshot.PublicAddress)
	}
	if m.Snapshot.PlaceFlag != "🇫🇷" {
		t.Errorf("PlaceFlag = %q", m.Snapshot.PlaceFlag)
	}
	view := m.View()
	for _, want := range []string{"edge-42", "2001:db8::1", "Paris, France"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.Locate()
	pipeline.Wait()
	m, _ = m.Update(waitForSnapshot(m.updates)())

	if m.Snapshot.Locating {
		t.Error("Locating should be cleared after the locate finished")
	}
	if m.Snapshot.Coordinates != (status.Coordinates{Longitude: 13.4, Latitude: 52.5}) {
		t.Errorf("Coordinates = %v", m.Snapshot.Coordinates)
	}
}

func TestStatusModel_LocatingShowsSpinner(t *testing.T) {
	pipeline := status.NewPipeline(status.Config{})
	m := NewStatusModel(context.Background(), pipeline, ui.NodeInfo{})
	defer m.Close()

	snap := m.Snapshot
	snap.Locating = true
	m, _ = m.Update(snapshotMsg(snap))

	if !strings.Contains(m.View(), "Locating…") {
		t.Error("card should show the locating indicator")
	}
}

func TestWaitForSnapshot_NilChannel(t *testing.T) {
	if waitForSnapshot(nil) != nil {
		t.Error("waitForSnapshot(nil) should return no command")
	}
}
