package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alon-amarilio/SPL25-Assignment3/cmd/gen"
)

var rootCmd = &cobra.Command{
	Use:   "stompclient",
	Short: "Interactive STOMP client for live game updates",
}

func init() {
	rootCmd.AddCommand(StartCmd)
	rootCmd.AddCommand(gen.RootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
