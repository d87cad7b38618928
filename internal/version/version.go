// Package version reports the flashprefs build version.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version = "development"
	Commit  = "unknown"
)

// String returns the version with the commit hash appended when known.
func String() string {
	commit := Commit
	if commit == "unknown" {
		commit = vcsRevision()
	}
	if commit == "unknown" || commit == "" {
		return Version
	}
	return Version + "+" + commit
}

var readBuildInfo = debug.ReadBuildInfo

// vcsRevision falls back to the revision recorded by the go tool, shortened
// to seven characters.
func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return ""
}
