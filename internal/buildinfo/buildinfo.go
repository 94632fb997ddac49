// Package buildinfo holds values stamped in at link time:
//
//	go build -ldflags "-X github.com/didi/symoff/internal/buildinfo.Version=v1.0.0 ..."
package buildinfo

var (
	Version   = "dev"
	CommitID  = "unknown"
	BuildTime = "unknown"
)
