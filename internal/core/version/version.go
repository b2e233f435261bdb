// Package version holds the exactscribe release version.
package version

// Version is set at build time via -ldflags for releases.
var Version = "0.1.0"
