// Package main provides the pydocs-scraper CLI.
//
// Usage:
//
//	pydocs-scraper <whats-new|latest-versions|download|pep> [-c] [-o pretty|file]
//
// See --help for all available options.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to a process exit code
func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, utils.ErrUsage):
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}
