// Package main provides the entry point for the trialscope CLI tool.
package main

import (
	"github.com/trialscope/trialscope/cmd/trialscope/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
