package buildinfo

// Build metadata, overridden at link time via
// -ldflags "-X github.com/JT5D/xrai/internal/buildinfo.Version=...".
var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)
