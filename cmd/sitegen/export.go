package main

import (
	"github.com/spf13/cobra"

	appconfig "github.com/gruzpro/site-platform/internal/config"
	"github.com/gruzpro/site-platform/internal/sitegen"
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export published news into the static artifact pair",
	Long:  "Fetches every published article from the store and writes news.json plus the typed Go module into the artifacts directory. An empty store produces a valid empty pair.",
	RunE:  runExportCmd,
}

var exportOut string

func init() {
	exportCommand.Flags().StringVarP(&exportOut, "out", "o", "", "Artifacts directory (defaults to ARTIFACTS_DIR)")
	rootCmd.AddCommand(exportCommand)
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Load()
	logger := newLogger(cfg)

	out := exportOut
	if out == "" {
		out = cfg.ArtifactsDir
	}

	repo, closeRepo, err := openNewsRepo(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	exporter := sitegen.NewExporter(repo, logger)
	if _, err := exporter.Run(cmd.Context(), out); err != nil {
		return err
	}
	return nil
}
