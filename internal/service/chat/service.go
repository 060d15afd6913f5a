package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/transcript"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/model/chat"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
)

var (
	ErrNoMessages      = errors.New("no messages could be parsed")
	ErrSessionNotFound = errors.New("session not found")
)

// DefaultLimit is the number of sessions retained when no limit is given.
const DefaultLimit = 100

type entry struct {
	session  chat.Session
	analyzer *metrics.Analyzer
}

// Service keeps parsed transcripts in memory, keyed by session id. It holds at
// most limit sessions and evicts the oldest one to make room.
type Service struct {
	mu       sync.RWMutex
	limit    int
	sessions map[string]*entry
	order    []string

	logger  logging.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLimit sets the session cap; values below 1 are ignored.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics records parse and session metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer sets the tracer.
func WithTracer(t *observability.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService bootstraps the in-memory session store.
func NewService(opts ...Option) *Service {
	s := &Service{
		limit:    DefaultLimit,
		sessions: make(map[string]*entry),
		logger:   logging.NewNopLogger(),
		tracer:   observability.NewTracer(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession parses content and stores the resulting message store under a
// fresh session id. It returns ErrNoMessages when nothing could be parsed.
func (s *Service) CreateSession(ctx context.Context, fileName, content string) (chat.Session, error) {
	ctx, span := s.tracer.StartParseSpan(ctx, len(content))
	spanHelper := observability.NewSpanHelper(span)
	defer span.End()

	started := s.now()
	result := transcript.Parse(content)
	took := s.now().Sub(started)

	spanHelper.SetParseResult(result.Grammar.Name, string(result.DateOrder), len(result.Messages))
	if s.metrics != nil {
		s.metrics.ObserveParse(result.Grammar.Name, string(result.DateOrder), len(result.Messages), result.Dropped, took)
	}

	log := s.logger.WithContext(ctx)
	if len(result.Messages) == 0 {
		log.Warn("transcript yielded no messages",
			logging.F("file_name", fileName),
			logging.F("lines", result.Lines),
			logging.F("grammar", result.Grammar.Name))
		spanHelper.SetError(ErrNoMessages)
		return chat.Session{}, ErrNoMessages
	}

	analyzer := metrics.New(result.Messages)
	start, end := analyzer.Span()
	session := chat.Session{
		ID:            uuid.NewString(),
		FileName:      fileName,
		TotalMessages: analyzer.Len(),
		Participants:  len(analyzer.Participants()),
		Start:         start,
		End:           end,
		CreatedAt:     s.now().UTC(),
	}

	_, storeSpan := s.tracer.StartSessionSpan(ctx)
	evicted := s.store(session, analyzer)
	observability.NewSpanHelper(storeSpan).SetSession(session.ID)
	storeSpan.End()
	spanHelper.SetSession(session.ID)
	spanHelper.SetSuccess()

	log.Info("session created",
		logging.F("session_id", session.ID),
		logging.F("file_name", fileName),
		logging.F("messages", session.TotalMessages),
		logging.F("dropped", result.Dropped),
		logging.F("grammar", result.Grammar.Name),
		logging.F("date_order", string(result.DateOrder)),
		logging.F("took", took))
	for _, id := range evicted {
		log.Debug("session evicted", logging.F("session_id", id))
	}
	return session, nil
}

// store inserts the session and evicts the oldest entries beyond the limit.
func (s *Service) store(session chat.Session, analyzer *metrics.Analyzer) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &entry{session: session, analyzer: analyzer}
	s.order = append(s.order, session.ID)

	var evicted []string
	for len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
		evicted = append(evicted, oldest)
	}

	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
		s.metrics.SessionEvictions.Add(float64(len(evicted)))
	}
	return evicted
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return e.session, nil
}

// Analyzer returns the message store of a session.
func (s *Service) Analyzer(_ context.Context, sessionID string) (*metrics.Analyzer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.analyzer, nil
}

// DeleteSession drops a session; unknown ids return ErrSessionNotFound.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	for i, id := range s.order {
		if id == sessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
	return nil
}

// Len returns the number of sessions held.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
