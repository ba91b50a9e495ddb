// Package version reports the archscan build that produced a report or a
// recorded run.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Set via -ldflags "-X github.com/ludo-technologies/archscan/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "source"
)

// Info is the resolved build identity
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

var (
	readBuildInfo = debug.ReadBuildInfo
	resolveOnce   sync.Once
	resolved      Info
)

// Get returns the ldflags values, filling the gaps from the module build
// info when the binary was installed with `go install`.
func Get() Info {
	resolveOnce.Do(func() {
		resolved = resolve(Version, Commit, Date, BuiltBy)
	})
	return resolved
}

func resolve(v, commit, date, builtBy string) Info {
	info := Info{Version: v, Commit: commit, Date: date, BuiltBy: builtBy}
	if info.Version == "" {
		info.Version = "dev"
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
		info.BuiltBy = "go install"
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" && s.Value != "" {
				info.Commit = s.Value
				if len(info.Commit) > 12 {
					info.Commit = info.Commit[:12]
				}
			}
		case "vcs.time":
			if info.Date == "unknown" && s.Value != "" {
				info.Date = s.Value
			}
		}
	}
	return info
}

// GetVersion returns the version recorded in reports
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	if Version != "dev" {
		return Version
	}
	return Get().Version
}

// GetFullVersion is the verbose `archscan version -v` line
func GetFullVersion() string {
	info := Get()
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s)",
		GetVersion(), info.Commit, info.Date, info.BuiltBy)
}
