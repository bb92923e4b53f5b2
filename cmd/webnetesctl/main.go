// Package main provides webnetesctl, the control panel for a Webnetes node.
//
// webnetesctl shows where the node is (public address, coordinates and the
// place they resolve to) and lets the operator edit the node configuration
// document. Saving applies the document to the node configuration file and,
// when a control URL is set, pushes it to the running node.
//
// Usage:
//
//	webnetesctl                     # Launch the control panel
//	webnetesctl edit                # Standalone configuration editor
//	webnetesctl status --locate     # Print the status card
//	webnetesctl apply node.yaml     # Apply a document without the editor
//	webnetesctl discover --save     # Find nodes on the local network
//	webnetesctl config init         # Write a default settings file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webnetes/webnetesctl/internal/logging"
	"github.com/webnetes/webnetesctl/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "webnetesctl",
	Short: "Control panel for a Webnetes node",
	Long: `webnetesctl is the control panel for a Webnetes node.

Run without a subcommand it opens the interactive panel: a status card
showing the node's public address and location above an editor for the
node configuration. Press ctrl+s to save and apply, esc to revert.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Annotations:       map[string]string{annotationPanel: "true"},
	PersistentPreRunE: initLogging,
	RunE:              runPanel,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "webnetesctl - Webnetes node control panel")
		for _, c := range version.Components() {
			fmt.Fprintf(out, "  %-12s %s\n", c.Name, c.Version)
		}
		fmt.Fprintf(out, "  %-12s %s\n", "commit", version.Commit)
	},
}
