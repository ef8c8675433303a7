// Package version reports build metadata for logkit binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the application version, set via ldflags.
	Version = "dev"
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the VCS revision, with a "-dirty" suffix for modified
	// trees.
	Revision = revision(debug.ReadBuildInfo)
)

// String renders the version on one line, e.g.
// "v1.2.0 (rev abc123, go1.25.0 linux/amd64)".
func String() string {
	s := fmt.Sprintf("%s (rev %s, %s %s/%s", Version, Revision, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if BuildDate != "" {
		s += ", built " + BuildDate
	}

	return s + ")"
}

func revision(read func() (*debug.BuildInfo, bool)) string {
	rev := "unknown"

	info, ok := read()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range info.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
