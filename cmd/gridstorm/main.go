// Package main is the entry point for the gridstorm table editing tool.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := newRootCmd()
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	err := root.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
