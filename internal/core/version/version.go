// Package version reports build information set at link time
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information
// Set with -ldflags "-X 'storyport/internal/core/version.version=v0.1.0'"
func Info() BuildInfo {
	return BuildInfo{
		Service: "storyport",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders a one-line summary for the CLI
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
