package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of compound-etl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("compound-etl %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
