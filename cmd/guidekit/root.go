package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "guidekit",
	Short: "GuideKit is a context-aware tutorial engine for CAD hosts",
	Long:  `GuideKit drives step-by-step tutorial overlays inside a 3D CAD application, watching where the user is and guiding them back when a step needs a different workspace or environment.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
