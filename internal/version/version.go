// Package version holds build metadata injected with -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/docnorm/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String formats the metadata for --version output.
func String() string {
	return fmt.Sprintf("docnorm %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
