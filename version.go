package translit

// Version information for translit.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/translit.Version=1.0.0"
const (
	// Name is the application name.
	Name = "translit"

	// Description is a short description of the application.
	Description = "Unicode to Latin/ASCII transliteration engine and template filters"

	// Version is the semantic version of the application.
	// Override at build time with ldflags for releases.
	Version = "0.2.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/translit"

	// License is the software license.
	License = "MIT"
)

// BuildInfo contains build-time information.
// These are typically set via ldflags during build.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// GitBranch is the git branch name.
	GitBranch = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"

	// GoVersion is the Go version used to build.
	GoVersion = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// VersionInfo returns the name and full version, e.g. "translit 0.2.0+abc1234".
func VersionInfo() string {
	return Name + " " + FullVersion()
}
