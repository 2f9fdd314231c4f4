package utils

import (
	"runtime/debug"
)

const developmentVersion = "dev"

// GetApplicationVersion returns the module version recorded in the build
// info, or a development placeholder when none is available.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	return developmentVersion
}
