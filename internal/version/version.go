// Package version reports the build's version, resolved from ldflags with a
// module build-info fallback. The update checker compares this against the
// latest published release.
package version

import (
	"runtime/debug"
	"strings"
)

var (
	// Version is the release version (set via -ldflags).
	Version = ""
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
	// BuildTime is the build timestamp (set via -ldflags).
	BuildTime = ""
)

// devVersion is reported when nothing stamped the build.
const devVersion = "0.0.0-dev"

type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

func Resolve() Info {
	resolved := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}

	if resolved.Version == "" {
		resolved.Version = moduleVersion()
	}
	if resolved.Version == "" {
		resolved.Version = devVersion
	}

	return resolved
}

// moduleVersion picks up the version recorded by `go install module@version`
// builds, which ldflags do not cover.
func moduleVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return ""
	}
	return strings.TrimPrefix(bi.Main.Version, "v")
}

func String() string {
	info := Resolve()
	if info.Commit == "" {
		return info.Version
	}
	return info.Version + " (" + shortCommit(info.Commit) + ")"
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
