package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-resume-expert/internal/services"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the available analysis modes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := services.LoadPromptCatalog()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, mode := range catalog.Modes() {
			fmt.Fprintf(out, "%s %-18s %-20s %s\n", mode.Icon, mode.Key, mode.Title, mode.Description)
			for _, feature := range mode.Features {
				fmt.Fprintf(out, "    ✓ %s\n", feature)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
