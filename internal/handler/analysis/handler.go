// Package analysis serves the per-session metric endpoints.
package analysis

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	chatService "github.com/zhouzirui/chat-vibes/backend/internal/service/chat"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/narrator"
	"github.com/zhouzirui/chat-vibes/backend/pkg/utils"
)

const msgSessionNotFound = "Session not found. Please upload a file first."

// Handler 分析接口的HTTP处理器
type Handler struct {
	chatSvc  *chatService.Service
	narrator *narrator.Service
	logger   logging.Logger
}

// New 创建分析处理器。narr 为 nil 时叙述接口使用模板。
func New(chatSvc *chatService.Service, narr *narrator.Service, logger logging.Logger) *Handler {
	if narr == nil {
		narr = narrator.NewTemplateService()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{chatSvc: chatSvc, narrator: narr, logger: logger}
}

// RegisterRoutes 注册每个指标的路由，以及对比与叙述接口
func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, name := range metrics.Names {
		r.Get("/"+name, h.handleMetric(name))
	}
	r.Get("/compare", h.handleCompare)
	r.Get("/narrative", h.handleNarrative)
}

func (h *Handler) handleMetric(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := h.requireSession(w, r)
		if !ok {
			return
		}
		limit, err := ParseLimit(name, r.URL.Query().Get("limit"))
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := h.chatSvc.Compute(r.Context(), sessionID, name, limit)
		if err != nil {
			h.respondComputeError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, result)
	}
}

// handleCompare 对比单个成员与群体平均
func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	user := strings.TrimSpace(r.URL.Query().Get("user_name"))
	if user == "" {
		h.respondError(w, http.StatusBadRequest, "user_name query parameter is required")
		return
	}

	analyzer, err := h.chatSvc.Analyzer(r.Context(), sessionID)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}
	cmp, found := analyzer.Compare(user)
	if !found {
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("User '%s' not found in this session.", user))
		return
	}
	h.respondJSON(w, http.StatusOK, cmp)
}

// handleNarrative 返回聊天叙述
func (h *Handler) handleNarrative(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	analyzer, err := h.chatSvc.Analyzer(r.Context(), sessionID)
	if err != nil {
		h.respondComputeError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, h.narrator.Narrate(r.Context(), analyzer.Summary()))
}

// ParseLimit 校验 limit 参数；为空时返回 0，由指标使用默认值。
func ParseLimit(name, raw string) (int, error) {
	bounds, takesLimit := metrics.Limits(name)
	if !takesLimit || raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	if !bounds.Contains(limit) {
		return 0, fmt.Errorf("limit must be between %d and %d", bounds.Min, bounds.Max)
	}
	return limit, nil
}

func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		h.respondError(w, http.StatusBadRequest, "session_id query parameter is required")
		return "", false
	}
	return sessionID, true
}

func (h *Handler) respondComputeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, msgSessionNotFound)
	case errors.Is(err, metrics.ErrUnknownMetric):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	if err := utils.RespondJSON(w, status, payload); err != nil {
		h.logger.Warn("failed to encode response", logging.Err(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, utils.ErrorBody{Detail: message})
}
