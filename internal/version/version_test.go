package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestDefaultsPopulated(t *testing.T) {
	if Version == "" || Commit == "" || RuntimeVersion == "" {
		t.Errorf("version vars should never be empty: %q %q %q", Version, Commit, RuntimeVersion)
	}
}

func TestFull(t *testing.T) {
	if !strings.Contains(Full(), Commit) {
		t.Errorf("Full() = %q, want commit %q", Full(), Commit)
	}
}

func TestComponents(t *testing.T) {
	components := Components()
	if len(components) != 3 {
		t.Fatalf("Components() returned %d entries, want 3", len(components))
	}
	if components[0].Name != "webnetesctl" || components[0].Version != Version {
		t.Errorf("first component = %+v", components[0])
	}
	if components[1].Name != "webnetes" {
		t.Errorf("second component = %+v, want node runtime", components[1])
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "webnetesctl/"+Version) {
		t.Errorf("UserAgent() = %q", ua)
	}
	if !strings.Contains(ua, "github.com/webnetes/webnetesctl") {
		t.Errorf("UserAgent() = %q, want contact URL", ua)
	}
}

func TestFromBuildInfo(t *testing.T) {
	savedVersion, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = savedVersion, savedCommit })

	tests := []struct {
		name        string
		info        debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "tagged install",
			info:        debug.BuildInfo{Main: debug.Module{Version: "v1.4.0"}},
			wantVersion: "v1.4.0",
		},
		{
			name: "dirty checkout",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.modified", Value: "true"},
					{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
				},
			},
			wantVersion: "dev-20260301",
			wantCommit:  "0123456-dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit = "", ""
			fromBuildInfo(&tt.info)
			if Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", Version, tt.wantVersion)
			}
			if Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", Commit, tt.wantCommit)
			}
		})
	}
}
