package main

import (
	"github.com/spf13/cobra"

	appconfig "github.com/gruzpro/site-platform/internal/config"
	"github.com/gruzpro/site-platform/internal/sitegen"
)

var injectCommand = &cobra.Command{
	Use:   "inject",
	Short: "Inline the exported snapshot into the HTML shell for first paint",
	Long:  "Rewrites the built index.html with the news snapshot inlined before </head>. Safe to run repeatedly: an existing block is replaced in place.",
	RunE:  runInjectCmd,
}

var (
	injectShell string
	injectData  string
)

func init() {
	injectCommand.Flags().StringVar(&injectShell, "shell", "", "Path to the built index.html (defaults to HTML_SHELL_PATH)")
	injectCommand.Flags().StringVarP(&injectData, "data", "d", "", "Artifacts directory holding news.json (defaults to ARTIFACTS_DIR)")
	rootCmd.AddCommand(injectCommand)
}

func runInjectCmd(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Load()
	logger := newLogger(cfg)

	shell := injectShell
	if shell == "" {
		shell = cfg.HTMLShellPath
	}
	dataDir := injectData
	if dataDir == "" {
		dataDir = cfg.ArtifactsDir
	}

	snap, err := loadSnapshot(dataDir, logger)
	if err != nil {
		return err
	}

	return sitegen.NewInjector(logger).Inject(shell, snap)
}
