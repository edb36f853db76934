// Package version holds build metadata stamped in by the linker.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags at build time:
//
//	go build -ldflags "-X github.com/soyeahso/voli/internal/version.Version=0.2.0
//	  -X github.com/soyeahso/voli/internal/version.Commit=abc123
//	  -X github.com/soyeahso/voli/internal/version.Date=2026-01-01"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns a one-line description of this build.
func Info() string {
	return fmt.Sprintf("voli %s (commit: %s, built: %s, %s, %s/%s)",
		Version, short(revision()), Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// revision prefers the linker-stamped commit and falls back to the VCS
// revision recorded by the go tool.
func revision() string {
	if Commit != "unknown" {
		return Commit
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return Commit
}

func short(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
