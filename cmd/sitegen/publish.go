package main

import (
	"fmt"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	appconfig "github.com/gruzpro/site-platform/internal/config"
	"github.com/gruzpro/site-platform/internal/sitegen"
)

var publishCommand = &cobra.Command{
	Use:   "publish",
	Short: "Upload the generated artifacts to the CDN bucket",
	RunE:  runPublishCmd,
}

var (
	publishOut    string
	publishShell  string
	publishBucket string
)

func init() {
	publishCommand.Flags().StringVarP(&publishOut, "out", "o", "", "Artifacts directory (defaults to ARTIFACTS_DIR)")
	publishCommand.Flags().StringVar(&publishShell, "shell", "", "Path to the built index.html (defaults to HTML_SHELL_PATH)")
	publishCommand.Flags().StringVar(&publishBucket, "bucket", "", "Target S3 bucket (defaults to ARTIFACTS_BUCKET)")
	rootCmd.AddCommand(publishCommand)
}

func runPublishCmd(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Load()
	logger := newLogger(cfg)

	out := publishOut
	if out == "" {
		out = cfg.ArtifactsDir
	}
	shell := publishShell
	if shell == "" {
		shell = cfg.HTMLShellPath
	}
	bucket := publishBucket
	if bucket == "" {
		bucket = cfg.ArtifactsBucket
	}
	if bucket == "" {
		return fmt.Errorf("%w: no artifacts bucket configured", sitegen.ErrStoreNotConfigured)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(cmd.Context(), opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", sitegen.ErrWriteFailed, err)
	}

	publisher := sitegen.NewPublisher(s3.NewFromConfig(awsCfg), bucket, logger)
	return publisher.PublishAll(cmd.Context(), out, filepath.Join(out, "sitemap.xml"), shell)
}
