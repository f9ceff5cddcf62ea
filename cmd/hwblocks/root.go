package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "hwblocks",
	Short: "hwblocks exercises the hardware building block models from the " +
		"command line.",
	Long: `hwblocks exercises the hardware building block models from the ` +
		`command line. Currently, it supports running randomized command ` +
		`streams against the cache controller.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
