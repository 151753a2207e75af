package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "battery-stress",
	Short: "Stress-test battery dispatch flexibility across market regimes",
}

func init() {
	rootCmd.AddCommand(cmdStress)
	rootCmd.AddCommand(cmdSolve)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
