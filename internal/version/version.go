// Package version provides build version information for the CLI.
package version

import (
	"runtime/debug"
)

// Version is the release version, injected at build time via ldflags. It
// falls back to the module version recorded in build info.
var Version = ""

// Revision is the VCS revision the binary was built from.
var Revision = "unknown"

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "" {
		Version = info.Main.Version
	}

	for _, kv := range info.Settings {
		if kv.Key == "vcs.revision" {
			Revision = kv.Value
		}
	}
}
