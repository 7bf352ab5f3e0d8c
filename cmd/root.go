package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the unified-analytics application
var rootCmd = &cobra.Command{
	Use:   "unified-analytics",
	Short: "MCP server for Google Search Console and Google Analytics 4 reports",
	Long: `unified-analytics exposes Google Search Console and Google Analytics 4
reporting for one or more websites as MCP tools and dashboard resources.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (serve)
  - A one-shot CLI for a single report (call)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "unified-analytics version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newCheckCredentialsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
