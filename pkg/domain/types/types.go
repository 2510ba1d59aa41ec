package types

// Version is the application version, overridden at build time via ldflags
var Version = "dev"

const (
	// DefaultOwner and DefaultRepo identify the upstream repository that
	// publishes standalone CPython builds as release assets.
	DefaultOwner = "astral-sh"
	DefaultRepo  = "python-build-standalone"
)
