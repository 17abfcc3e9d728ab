// Package version reports the build of the ground-truth tools.
package version

import "fmt"

// Set with -ldflags "-X fcn-groundtruth/internal/version.Version=..." and so on.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build for a command named cmd.
func String(cmd string) string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", cmd, Version, GitCommit, BuildTime)
}
