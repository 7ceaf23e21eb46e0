// Package buildinfo carries version details stamped into the billbook binary
// with -ldflags "-X github.com/billbook-dev/billbook/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
