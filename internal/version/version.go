// Package version exposes the binary version stamped at build time.
package version

// version is overridden by the release pipeline via
// -ldflags "-X github.com/0xa1bed0/restage/internal/version.version=...".
var version = "local"

func Get() string {
	return version
}
