package main

import (
	"fmt"
	"strings"

	"github.com/guidekit/guidekit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of guidekit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("guidekit version %s\n", strings.TrimSpace(guidekit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
