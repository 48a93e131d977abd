package main

import "runtime/debug"

// Set with -ldflags "-X main.buildVersion=...".
var buildVersion = ""

func init() {
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("pomflow {{.Version}}\n")
}

func versionString() string {
	if buildVersion != "" {
		return buildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
