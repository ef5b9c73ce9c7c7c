package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-resume-expert/internal/config"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the Gemini API key stored in the OS keychain",
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API key read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprint(cmd.ErrOrStderr(), "Gemini API key: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read API key: %w", err)
		}

		if err := config.SetAPIKeyInKeyring(strings.TrimSpace(line)); err != nil {
			return fmt.Errorf("failed to store API key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ API key stored in keychain")
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the API key from the keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.DeleteAPIKeyFromKeyring(); err != nil {
			return fmt.Errorf("failed to delete API key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ API key removed from keychain")
		return nil
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key would be loaded from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, source := config.ResolveAPIKey()
		if source == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "❌ No API key configured")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ API key found (%s)\n", source)
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd, keyStatusCmd)
	rootCmd.AddCommand(keyCmd)
}
