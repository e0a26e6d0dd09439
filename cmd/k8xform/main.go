// Package main is the entry point for the k8xform CLI, which manages the
// worker pool of a transform request: its Deployment, autoscaler and
// generated-code ConfigMap.
//
// Invalid configuration or request input exits with status 2, any other
// failure with status 1.
package main

import (
	"fmt"
	"os"

	"github.com/imamik/k8xform/cmd/k8xform/commands"
	"github.com/imamik/k8xform/internal/config"
)

// Set through -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "k8xform:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case config.IsConfigError(err):
		return 2
	default:
		return 1
	}
}
