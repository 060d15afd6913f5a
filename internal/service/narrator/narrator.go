// Package narrator turns a chat Summary into a short readable story.
package narrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/dustin/go-humanize"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
)

// Narrative 来源
const (
	SourceLLM      = "llm"
	SourceTemplate = "template"
)

const (
	defaultTimeout = 30 * time.Second
	emptyStory     = "Not enough messages to tell a story yet."
)

const systemPrompt = `You write short, playful recaps of group chats.
Use only the statistics you are given. Never invent names, quotes or numbers.
Answer in at most five sentences of plain text without markdown.`

// Narrative 是 /api/analysis/narrative 的响应体。
type Narrative struct {
	Source      string   `json:"source" yaml:"source"`
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	Text        string   `json:"text" yaml:"text"`
	KeyInsights []string `json:"key_insights" yaml:"key_insights"`
}

// Service 负责生成聊天叙述；未配置模型时退化为模板拼接。
type Service struct {
	chain     compose.Runnable[map[string]any, *schema.Message]
	modelName string
	timeout   time.Duration
	logger    logging.Logger
	metrics   *observability.Metrics
	tracer    *observability.Tracer
}

// Option 配置 Service。
type Option func(*Service)

func WithModelName(name string) Option { return func(s *Service) { s.modelName = name } }

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option { return func(s *Service) { s.logger = l } }

func WithMetrics(m *observability.Metrics) Option { return func(s *Service) { s.metrics = m } }

// NewTemplateService 返回只使用模板的叙述服务。
func NewTemplateService(opts ...Option) *Service {
	s := &Service{
		timeout: defaultTimeout,
		logger:  logging.NewNopLogger(),
		tracer:  observability.NewTracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewService 在 chatModel 之上编译提示词链。
func NewService(ctx context.Context, chatModel model.BaseChatModel, opts ...Option) (*Service, error) {
	s := NewTemplateService(opts...)
	if chatModel == nil {
		return s, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{stats}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile narrative chain: %w", err)
	}
	s.chain = runnable
	return s, nil
}

// LLMEnabled 指示是否接入了模型。
func (s *Service) LLMEnabled() bool {
	return s.chain != nil
}

// Narrate 生成叙述。模型调用失败时记录日志并回退到模板，不向调用方返回错误。
func (s *Service) Narrate(ctx context.Context, summary metrics.Summary) Narrative {
	fallback := Template(summary)
	if s.chain == nil || summary.TotalMessages == 0 {
		s.observe(SourceTemplate)
		return fallback
	}

	ctx, span := s.tracer.StartNarrativeSpan(ctx, s.modelName)
	spanHelper := observability.NewSpanHelper(span)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"stats":  describe(summary),
	})
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = fmt.Errorf("model returned an empty narrative")
	}
	if err != nil {
		spanHelper.SetError(err)
		s.logger.WithContext(ctx).Warn("narrative model failed, using template",
			logging.F("model", s.modelName), logging.Err(err))
		s.observe(SourceTemplate)
		return fallback
	}
	spanHelper.SetSuccess()
	s.observe(SourceLLM)

	return Narrative{
		Source:      SourceLLM,
		Model:       s.modelName,
		Text:        strings.TrimSpace(resp.Content),
		KeyInsights: fallback.KeyInsights,
	}
}

func (s *Service) observe(source string) {
	if s.metrics != nil {
		s.metrics.Narratives.WithLabelValues(source).Inc()
	}
}

// Template 把 Summary 的要点拼成一段话。
func Template(summary metrics.Summary) Narrative {
	insights := append([]string{}, summary.KeyInsights...)
	text := emptyStory
	if len(insights) > 0 {
		text = strings.Join(insights, " ")
	}
	return Narrative{Source: SourceTemplate, Text: text, KeyInsights: insights}
}

// describe 生成交给模型的统计摘要。
func describe(summary metrics.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Messages: %s over %s days (%.1f per day)\n",
		humanize.Comma(int64(summary.TotalMessages)), humanize.Comma(int64(summary.TotalDays)), summary.MessagesPerDay)
	fmt.Fprintf(&b, "Participants: %d\n", summary.UniqueParticipants)
	fmt.Fprintf(&b, "From %s to %s\n", summary.StartDate.Format("2006-01-02"), summary.EndDate.Format("2006-01-02"))
	if tc := summary.TopContributor; tc != nil {
		fmt.Fprintf(&b, "Top contributor: %s with %d messages (%.1f%%)\n", tc.Name, tc.Messages, tc.Percentage)
	}
	fmt.Fprintf(&b, "Peak hour: %02d:00\n", summary.PeakHour)
	if summary.BusiestDay != "" {
		fmt.Fprintf(&b, "Busiest day: %s\n", summary.BusiestDay)
	}
	for _, insight := range summary.KeyInsights {
		fmt.Fprintf(&b, "- %s\n", insight)
	}
	return b.String()
}
