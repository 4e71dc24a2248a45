// Package version holds build information injected by the linker, for example
// go build -ldflags "-X github.com/TeamNorCal/keywave/version.GitHash=`git rev-parse HEAD`"
package version

var (
	// GitHash is the commit the binary was built from
	GitHash = "unknown"
	// BuildTime is when the binary was built
	BuildTime = "unknown"
)
