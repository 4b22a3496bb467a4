package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appconfig "github.com/gruzpro/site-platform/internal/config"
	"github.com/gruzpro/site-platform/internal/sitegen"
)

var allCommand = &cobra.Command{
	Use:   "all",
	Short: "Run the full pipeline: export, sitemap, inject, then publish if configured",
	RunE:  runAllCmd,
}

func init() {
	rootCmd.AddCommand(allCommand)
}

func runAllCmd(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Load()
	logger := newLogger(cfg)

	repo, closeRepo, err := openNewsRepo(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	exporter := sitegen.NewExporter(repo, logger)
	snap, err := exporter.Run(cmd.Context(), cfg.ArtifactsDir)
	if err != nil {
		return err
	}

	builder := sitegen.NewSitemapBuilder(cfg.SiteBaseURL, nil)
	xml, err := builder.Build(snap)
	if err != nil {
		return err
	}
	sitemapPath := filepath.Join(cfg.ArtifactsDir, "sitemap.xml")
	if err := os.WriteFile(sitemapPath, xml, 0o644); err != nil {
		return fmt.Errorf("%w: %v", sitegen.ErrWriteFailed, err)
	}
	logger.Info("sitemap written", "path", sitemapPath)

	if err := sitegen.NewInjector(logger).Inject(cfg.HTMLShellPath, snap); err != nil {
		return err
	}

	if cfg.ArtifactsBucket == "" {
		logger.Info("no artifacts bucket configured; skipping publish")
		return nil
	}
	publishOut, publishShell, publishBucket = cfg.ArtifactsDir, cfg.HTMLShellPath, cfg.ArtifactsBucket
	return runPublishCmd(cmd, nil)
}
