// Package main is the command line front end: it analyzes one résumé against
// one job description and prints or saves the report.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a résumé PDF against a job description",
	Long:  "Renders the first pages of a résumé PDF, sends them with the job description to Gemini using one of the canned analysis modes and prints the result.",
	RunE:  runAnalyze,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
