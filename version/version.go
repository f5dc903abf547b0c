package version

import (
	"fmt"
	"runtime"
)

// Version information
var (
	// Version is the current version of the utility, overridden at build time
	// with -ldflags "-X admin-password-reset/version.Version=..."
	Version   = "0.1.0"
	GoVersion = runtime.Version()
	ToolCode  = "ADMIN_RESET_2026OCT_0.1.0"
)

// Info holds all version information
type Info struct {
	Version   string
	GoVersion string
	ToolCode  string
}

// GetInfo returns version information
func GetInfo() Info {
	return Info{
		Version:   Version,
		GoVersion: GoVersion,
		ToolCode:  ToolCode,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("admin-password-reset %s (%s, %s)", i.Version, i.ToolCode, i.GoVersion)
}
