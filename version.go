package storefront

// Version information for the storefront client SDK
const (
	// Version is the current SDK version
	Version = "development"

	// BuildDate is set during build time
	BuildDate = "development"

	// GitCommit is set during build time
	GitCommit = "unknown"
)
