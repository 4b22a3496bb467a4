// Package main provides the build-time site generation CLI: news export,
// sitemap, prerender injection and artifact publishing.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gruzpro/site-platform/internal/sitegen"
)

var rootCmd = &cobra.Command{
	Use:           "sitegen",
	Short:         "Build-time artifact generator for the marketing site",
	Long:          "sitegen materializes published news into the static artifact pair, derives the sitemap, injects prerender data into the HTML shell and optionally publishes everything to the CDN bucket.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(sitegen.ExitCode(err))
	}
}
