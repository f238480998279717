// Package version exposes build information set via -ldflags.
package version

import "fmt"

var (
	// Version is the release version, set at build time.
	Version = "dev"

	// Commit is the source revision, set at build time.
	Commit = "none"
)

// String returns the version for display.
func String() string {
	if Commit == "none" || Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
