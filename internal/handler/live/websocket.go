// Package live answers metric queries over a websocket bound to one session.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
	chatService "github.com/zhouzirui/chat-vibes/backend/internal/service/chat"
	"github.com/zhouzirui/chat-vibes/backend/pkg/utils"
)

// 消息类型
const (
	TypeConnected  = "connected"
	TypeMetric     = "metric"
	TypeCompare    = "compare"
	TypeComparison = "comparison"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeError      = "error"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
	maxFrameSize = 64 << 10
)

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// MetricRequest 请求单个指标
type MetricRequest struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

// CompareRequest 请求成员对比
type CompareRequest struct {
	UserName string `json:"user_name"`
}

// MetricResult 是 metric 消息的响应数据
type MetricResult struct {
	Name   string `json:"name"`
	Limit  int    `json:"limit,omitempty"`
	Result any    `json:"result"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// WebSocketHandler 处理实时分析连接
type WebSocketHandler struct {
	chatSvc  *chatService.Service
	logger   logging.Logger
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc *chatService.Service, logger logging.Logger, m *observability.Metrics) *WebSocketHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &WebSocketHandler{
		chatSvc: chatSvc,
		logger:  logger,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// conn 串行化写操作；gorilla 连接只允许一个并发写者。
type conn struct {
	ws        *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *conn) write(msgType string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		_ = utils.RespondError(w, http.StatusNotFound, "Session not found. Please upload a file first.")
		return
	}

	log := h.logger.WithContext(r.Context()).With(logging.F("session_id", sessionID))

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", logging.Err(err))
		return
	}
	defer ws.Close()

	if h.metrics != nil {
		h.metrics.StreamClients.WithLabelValues("websocket").Inc()
		defer h.metrics.StreamClients.WithLabelValues("websocket").Dec()
	}
	log.Debug("websocket connected")

	c := &conn{ws: ws, sessionID: sessionID}
	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.pingLoop(ctx, c)

	if err := c.write(TypeConnected, map[string]any{
		"session": session,
		"metrics": metrics.Names,
	}); err != nil {
		return
	}

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", logging.Err(err))
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(c, "session mismatch")
			continue
		}
		if err := h.handleMessage(ctx, c, &msg); err != nil {
			log.Debug("websocket write failed", logging.Err(err))
			return
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, c *conn, msg *inboundMessage) error {
	switch msg.Type {
	case TypeMetric:
		return h.handleMetric(ctx, c, msg.Data)
	case TypeCompare:
		return h.handleCompare(ctx, c, msg.Data)
	case TypePing:
		return c.write(TypePong, nil)
	default:
		return h.sendError(c, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) handleMetric(ctx context.Context, c *conn, raw json.RawMessage) error {
	var req MetricRequest
	if err := json.Unmarshal(raw, &req); err != nil || req.Name == "" {
		return h.sendError(c, "invalid metric payload")
	}
	if bounds, ok := metrics.Limits(req.Name); ok && req.Limit != 0 && !bounds.Contains(req.Limit) {
		return h.sendError(c, fmt.Sprintf("limit must be between %d and %d", bounds.Min, bounds.Max))
	}

	result, err := h.chatSvc.Compute(ctx, c.sessionID, req.Name, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, metrics.ErrUnknownMetric):
			return h.sendError(c, "unknown metric: "+req.Name)
		case errors.Is(err, chatService.ErrSessionNotFound):
			return h.sendError(c, "session expired")
		default:
			return h.sendError(c, "analysis failed")
		}
	}
	return c.write(TypeMetric, MetricResult{Name: req.Name, Limit: req.Limit, Result: result})
}

func (h *WebSocketHandler) handleCompare(ctx context.Context, c *conn, raw json.RawMessage) error {
	var req CompareRequest
	if err := json.Unmarshal(raw, &req); err != nil || req.UserName == "" {
		return h.sendError(c, "invalid compare payload")
	}
	analyzer, err := h.chatSvc.Analyzer(ctx, c.sessionID)
	if err != nil {
		return h.sendError(c, "session expired")
	}
	cmp, ok := analyzer.Compare(req.UserName)
	if !ok {
		return h.sendError(c, fmt.Sprintf("User '%s' not found in this session.", req.UserName))
	}
	return c.write(TypeComparison, cmp)
}

func (h *WebSocketHandler) sendError(c *conn, message string) error {
	return c.write(TypeError, map[string]string{"message": message})
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
