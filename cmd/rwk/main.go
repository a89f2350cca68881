package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rwk",
	Short: "RWK Einbeck Rundenwettkampf server",
	Long:  "RWK Einbeck manages the Einbeck shooting district's round competition: clubs, leagues, result entry, standings, and role-based access for club officials.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/rwk.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
