// Package version reports build information for sdb_cli.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set via ldflags during build, e.g.
// -ldflags "-X sdb_cli/pkg/version.Version=1.2.0".
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary returns the version with the short commit hash when known.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit != "" && Commit != "none" {
		short := Commit
		if len(short) > 7 {
			short = short[:7]
		}
		return fmt.Sprintf("%s (%s)", v, short)
	}
	return v
}

// Info returns the multi-line text printed by -version.
func Info() string {
	return fmt.Sprintf("sdb_cli version %s\n  commit: %s\n  built: %s\n  go: %s\n  platform: %s",
		Summary(), Commit, Date, GoVersion, Platform())
}
