/*
DataBuddy - AI-powered CSV data analysis assistant
*/
package main

import (
	"os"

	"github.com/databuddy-ai/databuddy/internal/cli"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, GitCommit, BuildTime)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
