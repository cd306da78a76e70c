// Package version holds build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

// Build variables, for example:
//
//	go build -ldflags "-X github.com/smazurov/vidrec/internal/version.Version=v1.2.0"
var (
	// Version is the application version, set via ldflags during build.
	Version = "dev"

	// GitCommit is the git commit hash, set via ldflags during build.
	GitCommit = "unknown"

	// BuildDate is the build timestamp, set via ldflags during build.
	BuildDate = "unknown"

	// BuildID is a unique build identifier, set via ldflags during build.
	BuildID = "unknown"
)

// Info contains version and build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	BuildID   string `json:"build_id"`
	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

// Get returns version and build information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		BuildID:   BuildID,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line summary for the version command.
func (i Info) String() string {
	return fmt.Sprintf("vidrec %s (commit %s, built %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// String returns the application version string.
func String() string {
	return Version
}
