// Package main provides the entry point for the pipeline CLI.
package main

import (
	"github.com/sportsbeams/pipeline/internal/cmd"
)

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
