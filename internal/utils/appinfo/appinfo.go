// file: internal/utils/appinfo/appinfo.go

// Package appinfo reports the running binary's version for health payloads.
package appinfo

import (
	"os"
	"runtime/debug"
)

const unknownVersion = "0.0.0-unknown"

// GetVersion resolves the application version: the APP_VERSION env var wins,
// then the module version or VCS revision stamped into the build, then a
// fixed fallback so the field is never empty.
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unknownVersion
	}

	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			return setting.Value
		}
	}

	return unknownVersion
}
