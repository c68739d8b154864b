/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package libinfo resolves the version of the module from the build info of the running binary.
package libinfo

import (
	"regexp"
	"runtime/debug"
	"sync"
)

// ModulePath is the path of this module.
const ModulePath = "github.com/MartinBugar/martyx-industries-fe-sub001"

const develVersion = "v0.0.0"

var (
	libVersion     string
	libVersionOnce sync.Once
)

// GetLibVersion returns the version of the module. It's v0.0.0 when the binary is built from a local checkout.
func GetLibVersion() string {
	libVersionOnce.Do(func() {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			libVersion = extractLibVersion(buildInfo, ModulePath)
		}
		if libVersion == "" {
			libVersion = develVersion
		}
	})
	return libVersion
}

// UserAgent returns the default User-Agent of the API client.
func UserAgent() string {
	return "storefront-apiclient/" + GetLibVersion()
}

// extractLibVersion looks for the module (including its /vN major versions) among
// the main module and the dependencies.
func extractLibVersion(buildInfo *debug.BuildInfo, modPath string) string {
	if buildInfo == nil {
		return ""
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(modPath) + `(/v[0-9]+)?$`)
	if re.MatchString(buildInfo.Main.Path) && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	for _, dep := range buildInfo.Deps {
		if re.MatchString(dep.Path) {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return ""
}
