// Package version carries build metadata injected at link time.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a single-line rendering suitable for -version flags.
func String() string {
	return fmt.Sprintf("starfix %s (%s, built %s)", Version, GitSHA, BuildTime)
}
