// Package version holds the version of the running binary.
package version

// Version is overridden at build time via
// `-ldflags "-X github.com/perceptia/perceptia/pkg/version.Version=..."`.
var Version = "dev"
