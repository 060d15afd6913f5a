package chat

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/model/chat"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
	chatService "github.com/zhouzirui/chat-vibes/backend/internal/service/chat"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/ingest"
	"github.com/zhouzirui/chat-vibes/backend/internal/service/stats"
	"github.com/zhouzirui/chat-vibes/backend/pkg/utils"
)

// 上传相关的提示文案
const (
	msgUploaded        = "File uploaded and parsed successfully"
	msgNoFile          = "No file provided"
	msgInvalidType     = "Invalid file type. Only .txt and .zip files are supported."
	msgNoTextInArchive = "No .txt file found in ZIP"
	msgInvalidArchive  = "Invalid ZIP file"
	msgUnparseable     = "Could not parse any messages. Check the file format."
	msgSessionNotFound = "Session not found. Please upload a file first."
)

// multipartMemory 是解析表单时保留在内存中的上限，超出部分落盘。
const multipartMemory = 8 << 20

// DateRange 是上传响应中的时间范围。
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UploadResponse 是 POST /api/upload 的响应体。
type UploadResponse struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	SessionID     string    `json:"session_id"`
	TotalMessages int       `json:"total_messages"`
	Participants  int       `json:"participants"`
	DateRange     DateRange `json:"date_range"`
}

// Handler 聊天记录上传与会话管理的HTTP处理器
type Handler struct {
	chatSvc        *chatService.Service
	decoder        *ingest.Decoder
	counter        stats.Counter
	maxUploadBytes int64
	logger         logging.Logger
	metrics        *observability.Metrics
}

// Option 配置 Handler。
type Option func(*Handler)

// WithLogger 设置日志记录器
func WithLogger(l logging.Logger) Option { return func(h *Handler) { h.logger = l } }

// WithMetrics 设置 Prometheus 指标
func WithMetrics(m *observability.Metrics) Option { return func(h *Handler) { h.metrics = m } }

// New 创建上传处理器。counter 可以为 nil，此时不统计使用次数。
func New(chatSvc *chatService.Service, decoder *ingest.Decoder, counter stats.Counter, maxUploadBytes int64, opts ...Option) *Handler {
	h := &Handler{
		chatSvc:        chatSvc,
		decoder:        decoder,
		counter:        counter,
		maxUploadBytes: maxUploadBytes,
		logger:         logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes 注册上传、会话和统计路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Delete("/sessions/{sessionID}", h.handleDeleteSession)
	r.Get("/stats", h.handleStats)
}

// handleUpload 接收 .txt 或 .zip 聊天导出并创建会话
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithContext(ctx)

	if h.maxUploadBytes > 0 {
		if r.ContentLength > h.maxUploadBytes {
			h.reject(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := h.formFile(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		h.reject(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	if !ingest.Supported(header.Filename) {
		h.reject(w, http.StatusBadRequest, msgInvalidType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		log.Error("read upload failed", logging.Err(err))
		h.reject(w, http.StatusInternalServerError, "Error reading uploaded file")
		return
	}
	if h.metrics != nil {
		h.metrics.UploadBytes.Observe(float64(len(data)))
	}

	text, err := h.decoder.Decode(ctx, header.Filename, data)
	if err != nil {
		status, message := decodeFailure(err)
		if status == http.StatusInternalServerError {
			log.Error("decode upload failed", logging.F("file_name", header.Filename), logging.Err(err))
		}
		h.observeUpload(statusLabel(err))
		h.respondError(w, status, message)
		return
	}

	session, err := h.chatSvc.CreateSession(ctx, header.Filename, text)
	if err != nil {
		if errors.Is(err, chatService.ErrNoMessages) {
			h.observeUpload(observability.UploadUnparseable)
			h.respondError(w, http.StatusBadRequest, msgUnparseable)
			return
		}
		log.Error("create session failed", logging.Err(err))
		h.observeUpload(observability.UploadRejected)
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}
	h.observeUpload(observability.UploadAccepted)

	if h.counter != nil {
		if _, err := h.counter.Increment(ctx); err != nil {
			log.Warn("usage counter increment failed", logging.Err(err))
		}
	}

	h.respondJSON(w, http.StatusOK, newUploadResponse(session))
}

func (h *Handler) formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, nil, err
	}
	return r.FormFile("file")
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %d MB.", h.maxUploadBytes>>20)
}

func (h *Handler) reject(w http.ResponseWriter, status int, message string) {
	h.observeUpload(observability.UploadRejected)
	h.respondError(w, status, message)
}

func (h *Handler) observeUpload(status string) {
	if h.metrics != nil {
		h.metrics.UploadsTotal.WithLabelValues(status).Inc()
	}
}

func decodeFailure(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedType):
		return http.StatusBadRequest, msgInvalidType
	case errors.Is(err, ingest.ErrNoTextInArchive):
		return http.StatusBadRequest, msgNoTextInArchive
	case errors.Is(err, ingest.ErrInvalidArchive):
		return http.StatusBadRequest, msgInvalidArchive
	case errors.Is(err, ingest.ErrEmptyContent):
		return http.StatusBadRequest, msgUnparseable
	case errors.Is(err, ingest.ErrArchiveTooLarge):
		return http.StatusRequestEntityTooLarge, "Archived chat is too large."
	default:
		return http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err)
	}
}

func statusLabel(err error) string {
	if errors.Is(err, ingest.ErrEmptyContent) {
		return observability.UploadUnparseable
	}
	return observability.UploadRejected
}

func newUploadResponse(s chat.Session) UploadResponse {
	return UploadResponse{
		Success:       true,
		Message:       msgUploaded,
		SessionID:     s.ID,
		TotalMessages: s.TotalMessages,
		Participants:  s.Participants,
		DateRange: DateRange{
			Start: s.Start.Format(metrics.LocalTimeLayout),
			End:   s.End.Format(metrics.LocalTimeLayout),
		},
	}
}

// handleGetSession 返回会话元数据
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, msgSessionNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, session)
}

// handleDeleteSession 删除会话
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.respondError(w, http.StatusNotFound, msgSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStats 返回全局使用次数，计数器异常时返回 0
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	var snap stats.Snapshot
	if h.counter != nil {
		n, err := h.counter.Get(r.Context())
		if err != nil {
			h.logger.WithContext(r.Context()).Warn("usage counter read failed", logging.Err(err))
		}
		snap.TotalVibesChecked = n
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	if err := utils.RespondJSON(w, status, payload); err != nil {
		h.logger.Warn("failed to encode response", logging.Err(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, utils.ErrorBody{Detail: message})
}
