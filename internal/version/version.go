// Package version holds build metadata injected with -ldflags.
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
)

// String renders the version for logs and the health endpoint.
func String() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
