package version

import "github.com/carlmjohnson/versioninfo"

// Build-time variable (set via ldflags)
var Version = ""

// GetVersion returns the ldflags version, or the module/VCS version when unset.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return versioninfo.Short()
}
