// Package version exposes build metadata of the lazyseq binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/Sumatoshi-tech/lazyseq/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

const (
	settingRevision = "vcs.revision"
	settingTime     = "vcs.time"
	develVersion    = "(devel)"
)

// InitBinaryVersion fills unset metadata from the embedded build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != develVersion {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case settingRevision:
			if Commit == "<unknown>" {
				Commit = s.Value
			}
		case settingTime:
			if Date == "<unknown>" {
				Date = s.Value
			}
		}
	}
}

// String renders the metadata on one line.
func String() string {
	return fmt.Sprintf("lazyseq %s (commit: %s, built: %s)", Version, Commit, Date)
}
