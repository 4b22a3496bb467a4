package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gruzpro/site-platform/internal/analytics"
	"github.com/gruzpro/site-platform/internal/api/router"
	"github.com/gruzpro/site-platform/internal/async"
	appconfig "github.com/gruzpro/site-platform/internal/config"
	"github.com/gruzpro/site-platform/internal/leads"
	"github.com/gruzpro/site-platform/internal/news"
	"github.com/gruzpro/site-platform/internal/notify"
	"github.com/gruzpro/site-platform/internal/observability/metrics"
	"github.com/gruzpro/site-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting site-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Store connection. A missing DSN keeps the server up: reads serve the
	// empty state and lead intake answers 503 with the call-us fallback.
	var pool *pgxpool.Pool
	if dsn := cfg.StoreDSN(); dsn != "" {
		var err error
		pool, err = pgxpool.New(ctx, dsn)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	} else {
		logger.Warn("no database configured; running without a store")
	}

	var leadsRepo leads.Repository
	var newsRepo news.Repository = news.NewInMemoryRepository()
	if pool != nil {
		leadsRepo = leads.NewPostgresRepository(pool)
		newsRepo = news.NewPostgresRepository(pool)
	}

	// Metrics
	leadMetrics := metrics.NewLeadMetrics(prometheus.DefaultRegisterer)
	cacheMetrics := metrics.NewNewsCacheMetrics(prometheus.DefaultRegisterer)

	// Notification channels
	webhook := notify.NewWebhookNotifier(cfg.NotifyWebhookURL, logger)
	var email notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFrom,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			email = s
		}
	case "ses":
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFrom,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			email = s
		}
	}
	notifier := notify.NewService(webhook, email, cfg.NotifyEmailTo, logger)

	goals := analytics.NewClient(cfg.AnalyticsURL, logger)
	tasks := async.NewRunner(logger)

	leadService := leads.NewService(leads.ServiceConfig{
		Repo:      leadsRepo,
		Writable:  cfg.StoreWritable(),
		Notifier:  notifier,
		Analytics: goals,
		Goal:      cfg.AnalyticsGoal,
		Tasks:     tasks,
		Metrics:   leadMetrics,
		Logger:    logger,
	})
	leadsHandler := leads.NewHandler(leadService, leadsRepo, logger)

	// Optional Redis layer for the public news list
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = rdb.Close() }()
	}
	newsCache := news.NewRedisCache(rdb, cfg.NewsCacheTTL, cacheMetrics, logger)
	newsHandler := news.NewHandler(newsRepo, news.NewSnapshotCache(newsRepo, logger), newsCache, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		NewsHandler:        newsHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     promhttp.Handler(),
		IntakeRate:         cfg.IntakeRate,
		IntakeBurst:        cfg.IntakeBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// loadAWSConfig prefers explicit static credentials and falls back to the
// default provider chain (instance profile, env vars).
func loadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
