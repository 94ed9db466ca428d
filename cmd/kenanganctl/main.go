package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag    string
	tokenFlag  string
	familyFlag string
	rootCmd    = &cobra.Command{
		Use:   "kenanganctl",
		Short: "CLI client for the Kenangan backend REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Kenangan service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Bearer token (local target accepts userId:displayName)")
	rootCmd.PersistentFlags().StringVarP(&familyFlag, "family", "f", "", "Family ID")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
