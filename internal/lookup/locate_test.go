package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/webnetes/webnetesctl/internal/status"
)

func TestIPLocator(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        status.Coordinates
		wantNoMatch bool
		wantParse   bool
	}{
		{
			name: "success",
			body: `{"ip":"203.0.113.7","city":"Paris","latitude":48.8589,"longitude":2.277}`,
			want: status.Coordinates{Longitude: 2.277, Latitude: 48.8589},
		},
		{
			name: "equator and meridian",
			body: `{"latitude":0,"longitude":0}`,
			want: status.Coordinates{},
		},
		{
			name:        "reserved address",
			body:        `{"ip":"127.0.0.1","error":true,"reason":"Reserved IP Address"}`,
			wantNoMatch: true,
		},
		{
			name:      "missing fields",
			body:      `{"ip":"203.0.113.7"}`,
			wantParse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != locatePath {
					t.Errorf("path = %q, want %q", r.URL.Path, locatePath)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := NewIPLocator(server.URL).Locate(context.Background())

			switch {
			case tt.wantNoMatch:
				if !IsNoMatch(err) {
					t.Errorf("error = %v, want no match", err)
				}
			case tt.wantParse:
				if !IsParseError(err) {
					t.Errorf("error = %v, want parse error", err)
				}
			default:
				if err != nil {
					t.Fatalf("Locate() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("Locate() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestStaticLocator(t *testing.T) {
	home := status.Coordinates{Longitude: 13.4, Latitude: 52.5}

	got, err := StaticLocator{Coordinates: &home}.Locate(context.Background())
	if err != nil || got != home {
		t.Errorf("Locate() = %v, %v; want %v", got, err, home)
	}

	_, err = StaticLocator{}.Locate(context.Background())
	if !errors.Is(err, ErrNoStaticCoordinates) {
		t.Errorf("error = %v, want ErrNoStaticCoordinates", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (StaticLocator{Coordinates: &home}).Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
