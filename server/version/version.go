/*
Package version provides build time version information for assetserve.

The package variables are stamped at build time with the -ldflags go build
flag:

	go build -ldflags "-X github.com/assetserve/assetserve/server/version.version=1.0.0"

Available values and defaults to use with ldflags:

	version   = "unknown"
	revision  = "unknown"
	buildDate = "unknown"
*/
package version

import (
	"fmt"
	"runtime"
)

// These values are private which ensures they can only be set with the build flags.
var (
	version   = "unknown"
	revision  = "unknown"
	goVersion = runtime.Version()
	buildDate = "unknown"
)

const appName = "assetserve"

// Info is a structure with version build information about the current application.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	GoVersion string `json:"go_version"`
	BuildDate string `json:"build_date"`
}

// Version returns a structure with the current version information.
func Version() Info {
	return Info{
		Version:   version,
		Revision:  revision,
		GoVersion: goVersion,
		BuildDate: buildDate,
	}
}

// Print outputs the application name and version string.
func Print() {
	v := Version()
	fmt.Printf("%s version %s\n", appName, v.Version)
}

// PrintFull prints the application name and detailed version information.
func PrintFull() {
	v := Version()
	fmt.Printf("%s - version %s\n", appName, v.Version)
	fmt.Printf("  revision: \t%s\n", v.Revision)
	fmt.Printf("  build date: \t%s\n", v.BuildDate)
	fmt.Printf("  go version: \t%s\n", v.GoVersion)
}
