package main

import (
	"runtime/debug"
)

// version is set at link time with -ldflags "-X main.version=v1.2.3"
var version = "dev"

// getVersionString returns the version, with the VCS revision when the
// binary was built from a checkout
func getVersionString() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}

	v := version
	if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return v
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified {
		revision += "-dirty"
	}
	return v + " (" + revision + ")"
}
