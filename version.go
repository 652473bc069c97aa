package cyrfix

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of cyrfix.
const Version = "0.3.0"

// VersionInfo contains detailed version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "0.3.0")
	Version string
	// GitCommit is the git commit hash
	GitCommit string
	// BuildTime is the build timestamp
	BuildTime string
	// GoVersion is the Go version used to build
	GoVersion string
}

// GetVersionInfo returns detailed version information.
//
// GitCommit and BuildTime come from -ldflags when set, otherwise from the
// VCS stamp the Go toolchain embeds in the binary:
//
//	go build -ldflags="-X github.com/simonhull/cyrfix.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/cyrfix.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/cyrfix
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "unknown" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "unknown" {
					info.BuildTime = s.Value
				}
			}
		}
	}

	return info
}

// Variables populated at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
