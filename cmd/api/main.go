package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"trendpulse/internal/config"
	"trendpulse/internal/domain/trend"
	"trendpulse/internal/server"
	"trendpulse/internal/service/events"
	"trendpulse/internal/service/ingestion"
	"trendpulse/internal/service/pipeline"
	"trendpulse/internal/service/source"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Connect to NATS when event publishing is enabled; the pipeline
	// runs fine without it
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		natsConn, err = initNATS(cfg.NATS, logger)
		if err != nil {
			logger.Warn("NATS unavailable, continuing without event publishing", zap.Error(err))
		} else {
			defer natsConn.Close()
		}
	}

	// Initialize platform collaborators
	sources := buildSources(cfg.Sources, logger)

	// Initialize pipeline stages
	coordinator := ingestion.NewCoordinator(logger, sources...)
	normalizer := pipeline.NewNormalizer(logger, time.Now)
	classifier := pipeline.NewClassifier(logger)
	scorer := pipeline.NewScorer(logger, time.Now)
	formatter := pipeline.NewFormatter(time.Now)
	publisher := events.NewPublisher(natsConn, cfg.Pipeline.EventsTopic, logger)

	processor := pipeline.NewProcessor(
		coordinator,
		normalizer,
		classifier,
		scorer,
		formatter,
		publisher,
		pipeline.ProcessorConfig{
			ItemsPerSource:   cfg.Pipeline.ItemsPerSource,
			ReportLimit:      cfg.Pipeline.ReportLimit,
			DefaultRegion:    cfg.Pipeline.DefaultRegion,
			PublishThreshold: cfg.Pipeline.PublishThreshold,
		},
		logger,
	)

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, cfg.Pipeline, processor, coordinator)

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// newLogger builds the process logger for the given environment
func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// buildSources wires all platform collaborators from their credentials
func buildSources(cfg config.SourcesConfig, logger *zap.Logger) []trend.Source {
	return []trend.Source{
		source.NewGoogleTrends(logger),
		source.NewEcommerce(source.EcommerceConfig{
			ShopifyAPIKey:   cfg.ShopifyAPIKey,
			AmazonAccessKey: cfg.AmazonAccessKey,
		}, logger),
		source.NewTikTok(source.TikTokConfig{
			AccessToken: cfg.TikTokAccessToken,
		}, logger),
		source.NewInstagram(source.InstagramConfig{
			AccessToken:       cfg.InstagramAccessToken,
			BusinessAccountID: cfg.InstagramBusinessAccountID,
			APIVersion:        cfg.InstagramAPIVersion,
		}, logger),
		source.NewFacebook(source.FacebookConfig{
			AccessToken: cfg.FacebookAccessToken,
			APIVersion:  cfg.FacebookAPIVersion,
			PageIDs:     cfg.FacebookPageIDs,
		}, logger),
		source.NewPinterest(source.PinterestConfig{
			AccessToken: cfg.PinterestAccessToken,
			APIVersion:  cfg.PinterestAPIVersion,
		}, logger),
	}
}

// initNATS connects to NATS with reconnect handling
func initNATS(cfg config.NATSConfig, logger *zap.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	return nats.Connect(cfg.URL, options...)
}
