package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sriram-PR/pydocs-scraper/pkg/config"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pydocs-scraper %s\n", config.Version)
		},
	}
}
