// Package version reports the build version of email-prune-css.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Set at build time via -ldflags "-X bennypowers.dev/emailprune/internal/version.Version=v0.1.0"
	Version   = "dev"
	GitCommit = "" // Git commit hash
	BuildTime = "" // Build timestamp
)

// readBuildInfo is replaced in tests
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the release version: the ldflags value when set, else
// the module version recorded by `go install`, else "dev".
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetCommit returns the short commit hash, falling back to the VCS stamp of
// the build. A "-dirty" suffix marks builds from a modified tree.
func GetCommit() string {
	commit, dirty := GitCommit, false
	if commit == "" {
		if info, ok := readBuildInfo(); ok {
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					commit = s.Value
				case "vcs.modified":
					dirty = s.Value == "true"
				}
			}
		}
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if dirty && commit != "" {
		commit += "-dirty"
	}
	return commit
}

// GetFullVersion returns the version with commit and build time when known,
// as printed by --version.
func GetFullVersion() string {
	v := GetVersion()
	if commit := GetCommit(); commit != "" {
		v = fmt.Sprintf("%s (commit: %s)", v, commit)
	}
	if BuildTime != "" {
		v = fmt.Sprintf("%s built %s", v, BuildTime)
	}
	return v
}
