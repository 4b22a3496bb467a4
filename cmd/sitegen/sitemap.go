package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appconfig "github.com/gruzpro/site-platform/internal/config"
	"github.com/gruzpro/site-platform/internal/sitegen"
)

var sitemapCommand = &cobra.Command{
	Use:   "sitemap",
	Short: "Generate sitemap.xml from the static routes and the exported snapshot",
	RunE:  runSitemapCmd,
}

var (
	sitemapOut     string
	sitemapBaseURL string
)

func init() {
	sitemapCommand.Flags().StringVarP(&sitemapOut, "out", "o", "", "Artifacts directory (defaults to ARTIFACTS_DIR)")
	sitemapCommand.Flags().StringVar(&sitemapBaseURL, "base-url", "", "Site base URL (defaults to SITE_BASE_URL)")
	rootCmd.AddCommand(sitemapCommand)
}

func runSitemapCmd(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Load()
	logger := newLogger(cfg)

	out := sitemapOut
	if out == "" {
		out = cfg.ArtifactsDir
	}
	baseURL := sitemapBaseURL
	if baseURL == "" {
		baseURL = cfg.SiteBaseURL
	}

	snap, err := loadSnapshot(out, logger)
	if err != nil {
		return err
	}

	builder := sitegen.NewSitemapBuilder(baseURL, nil)
	xml, err := builder.Build(snap)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("%w: %v", sitegen.ErrWriteFailed, err)
	}
	path := filepath.Join(out, "sitemap.xml")
	if err := os.WriteFile(path, xml, 0o644); err != nil {
		return fmt.Errorf("%w: %v", sitegen.ErrWriteFailed, err)
	}

	logger.Info("sitemap written", "path", path)
	return nil
}
