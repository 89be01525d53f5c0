package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/nexus"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nexus",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nexus version %s\n", strings.TrimSpace(nexus.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
