// Package buildinfo carries release metadata stamped by the linker:
//
//	go build -ldflags "-X github.com/m3rciful/buylist/core/buildinfo.Version=v0.3.0 \
//	  -X github.com/m3rciful/buylist/core/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/m3rciful/buylist/core/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "local"
	Date    = ""
)

// String formats the build for `buylistbot version`.
func String() string {
	s := fmt.Sprintf("buylistbot %s (%s", Version, Commit)
	if Date != "" {
		s += ", " + Date
	}
	return s + ", " + runtime.Version() + ")"
}
