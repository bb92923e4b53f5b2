package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/webnetes/webnetesctl/internal/urls"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/webnetes/webnetesctl/internal/version.Version=v1.2.3 \
//	                   -X github.com/webnetes/webnetesctl/internal/version.Commit=abc123 \
//	                   -X github.com/webnetes/webnetesctl/internal/version.RuntimeVersion=v0.4.0"
//
// Unset values come from the module build info, then fall back to a
// timestamped dev version.
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
	// RuntimeVersion is the webnetes node runtime this build targets
	RuntimeVersion = ""
)

// Component is one entry of the versions list on the status card
type Component struct {
	Name    string
	Version string
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
	if RuntimeVersion == "" {
		RuntimeVersion = "unknown"
	}
}

// fromBuildInfo fills whatever ldflags left empty. A module installed with
// go install ...@vX.Y.Z carries its tag; a source checkout carries VCS
// settings.
func fromBuildInfo(info *debug.BuildInfo) {
	vcs := make(map[string]string)
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := vcs["vcs.revision"]; rev != "" {
			Commit = rev[:min(len(rev), 7)]
			if vcs["vcs.modified"] == "true" {
				Commit += "-dirty"
			}
		}
	}

	if Version == "" {
		switch v := info.Main.Version; {
		case v != "" && v != "(devel)":
			Version = v
		case vcs["vcs.time"] != "":
			if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
				Version = "dev-" + t.Format("20060102")
			}
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Components lists the panel and node runtime versions
func Components() []Component {
	return []Component{
		{Name: "webnetesctl", Version: Version},
		{Name: "webnetes", Version: RuntimeVersion},
		{Name: "go", Version: runtime.Version()},
	}
}

// UserAgent identifies this build to public lookup services
func UserAgent() string {
	return fmt.Sprintf("webnetesctl/%s (+%s)", Version, urls.Repository)
}
