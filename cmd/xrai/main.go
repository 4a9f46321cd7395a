package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/aggregator"
	"github.com/JT5D/xrai/internal/catalog"
	"github.com/JT5D/xrai/internal/config"
	"github.com/JT5D/xrai/internal/metrics"
	"github.com/JT5D/xrai/internal/pipeline"
	"github.com/JT5D/xrai/internal/provider"
	"github.com/JT5D/xrai/internal/server"
)

var (
	configFile  = flag.String("config", "", "Path to a YAML config file (optional)")
	watchConfig = flag.Bool("watch-config", false, "Reload the config file on change")
	catalogURL  = flag.String("catalog-url", "", "libSQL catalog URL (default: file:./xrai-catalog.db)")
	authToken   = flag.String("auth-token", "", "Authentication token for remote catalog databases")
	sources     = flag.String("sources", "", "Comma-separated source tags to enable (default: all)")
	transport   = flag.String("transport", "stdio", "Transport to use: stdio or sse")
	addr        = flag.String("addr", ":8080", "Address to listen on when using SSE transport")
	sseEndpoint = flag.String("sse-endpoint", "/sse", "SSE endpoint path when using SSE transport")
)

func main() {
	flag.Parse()

	// Logs go to stderr; stdout belongs to the stdio transport.
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal, closing server")
		cancel()
	}()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize metrics (noop if disabled)
	metrics.InitFromEnv()

	// Override with command line flags if provided
	if *catalogURL != "" {
		cfg.Catalog.URL = *catalogURL
	}
	if *authToken != "" {
		cfg.Catalog.AuthToken = *authToken
	}
	if *sources != "" {
		cfg.Sources = strings.Split(*sources, ",")
		if err := cfg.Validate(); err != nil {
			logger.Fatal("invalid sources flag", zap.Error(err))
		}
	}

	cat, err := catalog.New(catalog.Config{URL: cfg.Catalog.URL, AuthToken: cfg.Catalog.AuthToken}, logger)
	if err != nil {
		logger.Fatal("failed to open catalog", zap.Error(err))
	}
	defer func() {
		if err := cat.Close(); err != nil {
			logger.Warn("error closing catalog", zap.Error(err))
		}
	}()

	providers := provider.NewRegistry(cfg, cat, logger)
	agg := aggregator.New(providers, logger)
	pipe := pipeline.New(agg, cfg.EnabledSources(), time.Duration(cfg.CacheTTLSec)*time.Second, logger)

	if *watchConfig && *configFile != "" {
		stop, err := config.Watch(*configFile, logger, func(next *config.Config) {
			pipe.SetSources(next.EnabledSources())
		})
		if err != nil {
			logger.Warn("config watching disabled", zap.Error(err))
		} else {
			defer stop()
		}
	}

	mcpServer := server.NewMCPServer(pipe, cat, agg.Sources(), logger)

	logger.Info("starting xrai server", zap.Int("providers", len(providers)))
	switch *transport {
	case "stdio":
		go func() {
			if err := mcpServer.Run(ctx); err != nil {
				logger.Error("server error", zap.Error(err))
			}
		}()
	case "sse":
		go func() {
			if err := mcpServer.RunSSE(ctx, *addr, *sseEndpoint); err != nil {
				logger.Error("SSE server error", zap.Error(err))
			}
		}()
	default:
		logger.Fatal("unknown transport (expected: stdio or sse)", zap.String("transport", *transport))
	}

	<-ctx.Done()

	logger.Info("server stopped")
}
