package chat

import (
	"context"
	"errors"
	"time"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
)

// Analysis outcomes recorded on the status label of AnalysisRequests.
const (
	statusOK       = "ok"
	statusNotFound = "not_found"
	statusError    = "error"
)

// Compute runs the named metric against a session. The limit is passed through
// to metrics.Analyzer.Compute, so zero selects the metric default.
func (s *Service) Compute(ctx context.Context, sessionID, name string, limit int) (any, error) {
	ctx, span := s.tracer.StartAnalysisSpan(ctx, sessionID, name, limit)
	spanHelper := observability.NewSpanHelper(span)
	defer span.End()

	started := s.now()
	analyzer, err := s.Analyzer(ctx, sessionID)
	if err != nil {
		spanHelper.SetError(err)
		s.observeAnalysis(name, statusNotFound, started)
		return nil, err
	}

	result, err := analyzer.Compute(name, limit)
	if err != nil {
		spanHelper.SetError(err)
		s.observeAnalysis(name, statusError, started)
		if !errors.Is(err, metrics.ErrUnknownMetric) {
			s.logger.WithContext(ctx).Error("metric failed",
				logging.F("metric", name), logging.F("session_id", sessionID), logging.Err(err))
		}
		return nil, err
	}

	spanHelper.SetSuccess()
	s.observeAnalysis(name, statusOK, started)
	return result, nil
}

func (s *Service) observeAnalysis(name, status string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(name, status, s.now().Sub(started))
	}
}
