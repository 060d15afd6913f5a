package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/zhouzirui/chat-vibes/backend/internal/config"
	"github.com/zhouzirui/chat-vibes/backend/internal/handler"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/chat"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/ingest"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/narrator"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/stats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger(logging.DefaultConfig()).Error("failed to load configuration", logging.Err(err))
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.JSONFormat = cfg.Log.JSON
	logger := logging.NewLogger(logCfg)
	if envErr != nil {
		logger.Debug("no .env file loaded, using process environment", logging.Err(envErr))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	chatService := chat.NewService(
		chat.WithLimit(cfg.Session.Limit),
		chat.WithLogger(logger),
		chat.WithMetrics(metrics),
		chat.WithTracer(observability.NewTracer()),
	)

	counter, closeCounter := newCounter(ctx, cfg.Stats, logger)
	defer closeCounter()

	router := handler.NewRouter(handler.Deps{
		Chat:           chatService,
		Decoder:        ingest.NewDecoder(cfg.Server.MaxUploadBytes),
		Counter:        counter,
		Narrator:       newNarrator(ctx, cfg.AI, logger, metrics),
		Logger:         logger,
		Metrics:        metrics,
		Gatherer:       reg,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	startServer(ctx, cfg.Server, router, logger)
}

// newCounter 优先使用 Redis，连接失败时退回到本地文件。
func newCounter(ctx context.Context, cfg config.StatsConfig, logger logging.Logger) (stats.Counter, func()) {
	if cfg.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rc, err := stats.DialRedisCounter(dialCtx, cfg.RedisURL, cfg.RedisKey)
		if err == nil {
			logger.Info("usage counter backed by redis", logging.F("key", cfg.RedisKey))
			return rc, func() { _ = rc.Close() }
		}
		logger.Warn("redis unavailable, falling back to stats file", logging.Err(err))
	}
	logger.Info("usage counter backed by file", logging.F("path", cfg.File))
	return stats.NewFileCounter(cfg.File), func() {}
}

func newNarrator(ctx context.Context, cfg config.AIConfig, logger logging.Logger, metrics *observability.Metrics) *narrator.Service {
	opts := []narrator.Option{
		narrator.WithLogger(logger),
		narrator.WithMetrics(metrics),
		narrator.WithTimeout(cfg.Timeout),
		narrator.WithModelName(cfg.Model),
	}
	if !cfg.NarratorActive() {
		logger.Info("Ark 凭证未配置或叙述已关闭，使用模板文案")
		return narrator.NewTemplateService(opts...)
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		logger.Warn("failed to initialize chat model, using template narratives", logging.Err(err))
		return narrator.NewTemplateService(opts...)
	}
	svc, err := narrator.NewService(ctx, chatModel, opts...)
	if err != nil {
		logger.Warn("failed to build narrative chain, using template narratives", logging.Err(err))
		return narrator.NewTemplateService(opts...)
	}
	logger.Info("narrator initialized", logging.F("model", cfg.Model))
	return svc
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger logging.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("chat vibes backend listening", logging.F("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server error", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
