package version

import (
	"runtime/debug"
	"strings"

	"golang.org/x/mod/module"
)

// String reports the module version the binary was built from, or
// "(devel)" for local and pseudo-versioned builds.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}
	return normalize(info.Main.Version)
}

func normalize(version string) string {
	if version == "" || version == "(devel)" {
		return "(devel)"
	}
	if strings.Contains(version, "+dirty") || module.IsPseudoVersion(version) {
		return "(devel)"
	}
	return version
}
