// Package misc carries program identity helpers shared by the CLI, the
// logger and the debug reporter.
package misc

import (
	"runtime/debug"
)

const appName = "wpparser"

// GetAppName returns short program name used for logging, temporary files
// and report entries.
func GetAppName() string {
	return appName
}

// GetVersion returns module version recorded by the Go toolchain, or
// "development" for local builds.
func GetVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; len(v) != 0 && v != "(devel)" {
			return v
		}
	}
	return "development"
}

// GetGitHash returns vcs revision recorded by the Go toolchain, or "unknown"
// when the binary was built outside of a checkout.
func GetGitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "unknown"
}
