package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contract-farming",
	Short: "Contract Farming - marketplace for farmers and buyers",
	Long: `Contract Farming lets farmers publish crop listings and buyers download
purchase agreements for them as PDF documents.

Run 'contract-farming serve' to start the HTTP API, or 'contract-farming import'
to load users and crops exported by an earlier deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}
