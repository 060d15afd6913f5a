// Package stream pushes every metric bundle of a session over Server-Sent Events.
package stream

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
	chatService "github.com/zhouzirui/chat-vibes/backend/internal/service/chat"
	"github.com/zhouzirui/chat-vibes/backend/pkg/utils"
)

// SSE 事件名；指标事件直接使用指标名。
const (
	EventSession = "session"
	EventError   = "error"
	EventEnd     = "end"
)

// ErrorEvent 描述单个指标计算失败。
type ErrorEvent struct {
	Metric string `json:"metric"`
	Detail string `json:"detail"`
}

// EndEvent 标记流结束。
type EndEvent struct {
	SessionID string `json:"session_id"`
	Metrics   int    `json:"metrics"`
	Finished  bool   `json:"finished"`
}

// Handler 通过 SSE 推送分析结果
type Handler struct {
	chatSvc *chatService.Service
	logger  logging.Logger
	metrics *observability.Metrics
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, logger logging.Logger, m *observability.Metrics) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{chatSvc: chatSvc, logger: logger, metrics: m}
}

// RegisterRoutes 注册 /stream 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithContext(ctx)

	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		_ = utils.RespondError(w, http.StatusBadRequest, "session_id query parameter is required")
		return
	}
	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		_ = utils.RespondError(w, http.StatusNotFound, "Session not found. Please upload a file first.")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		_ = utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if h.metrics != nil {
		h.metrics.StreamClients.WithLabelValues("sse").Inc()
		defer h.metrics.StreamClients.WithLabelValues("sse").Dec()
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if err := utils.SendSSEEvent(w, flusher, EventSession, session); err != nil {
		log.Warn("sse write failed", logging.Err(err))
		return
	}

	sent := 0
	for _, name := range metrics.Names {
		if ctx.Err() != nil {
			log.Debug("sse client went away", logging.F("session_id", sessionID), logging.F("sent", sent))
			return
		}

		event, payload := name, any(nil)
		result, err := h.chatSvc.Compute(ctx, sessionID, name, 0)
		if err != nil {
			event, payload = EventError, ErrorEvent{Metric: name, Detail: err.Error()}
		} else {
			payload = result
			sent++
		}
		if err := utils.SendSSEEvent(w, flusher, event, payload); err != nil {
			log.Warn("sse write failed", logging.F("metric", name), logging.Err(err))
			return
		}
	}

	if err := utils.SendSSEEvent(w, flusher, EventEnd, EndEvent{SessionID: sessionID, Metrics: sent, Finished: true}); err != nil {
		log.Warn("sse write failed", logging.Err(err))
		return
	}
	log.Info("sse stream completed", logging.F("session_id", sessionID), logging.F("metrics", sent))
}
