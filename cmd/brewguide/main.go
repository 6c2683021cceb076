// Command brewguide is a step-by-step coffee brewing guide.
package main

import (
	"os"
	"runtime/debug"

	"github.com/alexander-akhmetov/brewguide/internal/cmd"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			commit, date = vcsStamp(info.Settings)
		}
	}
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// vcsStamp extracts a short commit (suffixed -dirty for modified trees)
// and the commit time from build settings.
func vcsStamp(settings []debug.BuildSetting) (rev, when string) {
	rev, when = "unknown", "unknown"
	var full string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			full = s.Value
		case "vcs.time":
			if s.Value != "" {
				when = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(full) >= 7 {
		rev = full[:7]
		if dirty {
			rev += "-dirty"
		}
	}
	return rev, when
}
