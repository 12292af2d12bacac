package buildinfo

// These variables are intended to be set via -ldflags at build time:
//
//	-X 'github.com/poryadindom/leadbot/internal/buildinfo.Version=v1.2.3'
//	-X 'github.com/poryadindom/leadbot/internal/buildinfo.Commit=abcdef0'
//
// Default values are useful for local dev.
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
)
