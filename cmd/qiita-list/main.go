// Package main is the entry point for the qiita-list CLI
package main

import (
	"os"

	"github.com/Ryutta/qiita-list/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
