package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhouzirui/chat-vibes/backend/internal/handler/analysis"
	"github.com/zhouzirui/chat-vibes/backend/internal/handler/chat"
	"github.com/zhouzirui/chat-vibes/backend/internal/handler/live"
	"github.com/zhouzirui/chat-vibes/backend/internal/handler/stream"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	middlewarePkg "github.com/zhouzirui/chat-vibes/backend/internal/middleware"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
	chatService "github.com/zhouzirui/chat-vibes/backend/internal/service/chat"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/ingest"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/narrator"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/stats"
	"github.com/zhouzirui/chat-vibes/backend/pkg/utils"
)

// Version 是对外暴露的 API 版本。
const Version = "1.0.0"

// Deps 汇总路由所需的服务。Counter、Narrator、Metrics、Gatherer 可以为空。
type Deps struct {
	Chat           *chatService.Service
	Decoder        *ingest.Decoder
	Counter        stats.Counter
	Narrator       *narrator.Service
	Logger         logging.Logger
	Metrics        *observability.Metrics
	Gatherer       prometheus.Gatherer
	MaxUploadBytes int64
}

// NewRouter wires HTTP routes to core services.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	if d.Decoder == nil {
		d.Decoder = ingest.NewDecoder(d.MaxUploadBytes)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(d.Chat, d.Decoder, d.Counter, d.MaxUploadBytes,
		chat.WithLogger(d.Logger), chat.WithMetrics(d.Metrics))
	analysisHandler := analysis.New(d.Chat, d.Narrator, d.Logger)
	streamHandler := stream.New(d.Chat, d.Logger, d.Metrics)
	liveHandler := live.NewWebSocketHandler(d.Chat, d.Logger, d.Metrics)

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handleHealth)

		// upload, sessions, stats
		chatHandler.RegisterRoutes(api)

		api.Route("/analysis", func(ar chi.Router) {
			analysisHandler.RegisterRoutes(ar)
			streamHandler.RegisterRoutes(ar)
		})

		liveHandler.RegisterWebSocketRoutes(api)
	})

	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	_ = utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "WhatsApp Chat Analyzer API",
		"docs":    "/docs",
		"version": Version,
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}
