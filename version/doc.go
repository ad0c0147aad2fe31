// Package version reports build information for the typedflow binary.
//
// Release builds stamp the version, commit and build time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/typedflow/version.Version=1.4.0 \
//	  -X github.com/kbukum/typedflow/version.Commit=$(git rev-parse --short HEAD)"
//
// Unstamped builds fall back to the VCS data the Go toolchain embeds.
package version
