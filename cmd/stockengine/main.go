package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stockengine",
	Short: "A continuously running market-data analysis engine",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to the config file")
	rootCmd.AddCommand(serveCmd, analyzeOnceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stockengine: %v\n", err)
		os.Exit(1)
	}
}
