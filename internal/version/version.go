// Package version holds build metadata injected via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/longkey1/askdoc/internal/version.Version=v0.1.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Short returns only the version number
func Short() string {
	return Version
}

// Info returns the full version information
func Info() string {
	return fmt.Sprintf("askdoc %s\n  commit:     %s\n  built:      %s\n  go version: %s",
		Version, Commit, BuildTime, runtime.Version())
}
