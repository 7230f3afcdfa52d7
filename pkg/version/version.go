// Package version exposes the build version stamped at link time.
package version

// version is set via -ldflags "-X github.com/kwatlas/kwatlas/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Link-time variable must be a package global.
var version = "dev"

// GetVersion returns the build version, or "dev" for unstamped builds.
func GetVersion() string {
	return version
}
