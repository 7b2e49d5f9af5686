// Package version provides information about the build version of the sylwalk binaries.
package version

// BuildInfo holds version information about a binary build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information of the API service. The version, commit,
// and date variables are intended to be set at build time using -ldflags.
func Info() BuildInfo { return For("sylwalk-api") }

// For returns the build information stamped with the given binary name.
func For(service string) BuildInfo {
	// Set via -ldflags "-X 'sylwalk/internal/core/version.version=v0.1.0'
	// -X 'sylwalk/internal/core/version.commit=abcd' -X 'sylwalk/internal/core/version.date=2026-10-19'"
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
