// Package cmd provides the command-line interface of cachesim.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "cachesim replays memory traces through a cache and TLB hierarchy.",
	Long: `cachesim replays memory traces through a two-level cache ` +
		`hierarchy with way-halting L1 caches and a two-level TLB. ` +
		`Defaults of the flags can be set in the environment or in a .env file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It returns the exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		return 1
	}

	return 0
}

// loadDotEnv reads the .env file of the working directory, if any. Variables
// already in the environment win.
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Cannot read .env: %s\n", err)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv)
}
