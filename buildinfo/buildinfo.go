// Package buildinfo carries version data injected at link time:
//
//	go build -ldflags "-X github.com/ozontech/condexpr/buildinfo.Version=..."
package buildinfo

var (
	Version   = "unknown"
	BuildTime = "unknown"
)
