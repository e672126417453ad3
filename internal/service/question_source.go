package service

import (
	"context"
	"errors"
	"fmt"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"smart_assessment_backend/pkg/logger"
	"smart_assessment_backend/pkg/monitoring"
	"smart_assessment_backend/pkg/tracing"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Origin 试卷来源
type Origin string

const (
	OriginCatalog  Origin = "catalog"
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
	OriginInline   Origin = "inline"
)

const defaultFallbackTopic = "Digital safety basics"

// GenerationOutcome 出题结果；Origin 为 fallback 时 Err 记录失败原因
type GenerationOutcome struct {
	Exam   model.Exam            `json:"exam"`
	Origin Origin                `json:"origin"`
	Err    *util.GenerationError `json:"-"`
}

func (o GenerationOutcome) Degraded() bool {
	return o.Origin == OriginFallback
}

// QuestionSource 提供预置试卷和带兜底的远程出题
type QuestionSource struct {
	catalog   []model.Exam
	generator ExamGenerator
	timeout   atomic.Int64
}

func NewQuestionSource(catalog []model.Exam, generator ExamGenerator, timeout time.Duration) *QuestionSource {
	s := &QuestionSource{
		catalog:   catalog,
		generator: generator,
	}
	s.SetTimeout(timeout)
	return s
}

// SetTimeout 配置热加载时调整出题超时
func (s *QuestionSource) SetTimeout(d time.Duration) {
	s.timeout.Store(int64(d))
}

func (s *QuestionSource) Timeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

// Catalog 返回预置试卷的副本
func (s *QuestionSource) Catalog() []model.Exam {
	out := make([]model.Exam, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *QuestionSource) FindExam(id string) (model.Exam, error) {
	for _, exam := range s.catalog {
		if exam.ID == id {
			return exam, nil
		}
	}
	return model.Exam{}, util.ErrExamNotFound
}

// Generate 调用出题服务；任何失败（包括超时）都返回兜底试卷，不返回错误
func (s *QuestionSource) Generate(ctx context.Context, prompt string, desiredCount int) GenerationOutcome {
	prompt = strings.TrimSpace(prompt)
	count := clampQuestionCount(desiredCount)

	ctx, span := tracing.Tracer.Start(ctx, "QuestionSource.Generate")
	defer span.End()
	span.SetAttributes(attribute.Int("exam.desired_count", count))

	exam, err := s.generate(ctx, prompt, count)
	if err == nil {
		monitoring.GenerationTotal.WithLabelValues(string(OriginLive), "").Inc()
		span.SetAttributes(attribute.String("exam.origin", string(OriginLive)))
		return GenerationOutcome{Exam: exam, Origin: OriginLive}
	}

	genErr := asGenerationError(ctx, err)
	monitoring.GenerationTotal.WithLabelValues(string(OriginFallback), genErr.Stage).Inc()
	span.SetAttributes(attribute.String("exam.origin", string(OriginFallback)))
	span.SetStatus(codes.Error, genErr.Error())
	logger.Log.Warn("Exam generation failed, using fallback exam",
		zap.String("stage", genErr.Stage),
		zap.Int("desired_count", count),
		zap.Error(genErr.Err),
	)

	return GenerationOutcome{
		Exam:   FallbackExam(prompt),
		Origin: OriginFallback,
		Err:    genErr,
	}
}

func (s *QuestionSource) generate(ctx context.Context, prompt string, count int) (model.Exam, error) {
	if s.generator == nil {
		return model.Exam{}, &util.GenerationError{Stage: util.StageTransport, Err: errors.New("no exam generator configured")}
	}

	if timeout := s.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	exam, err := s.generator.GenerateExam(ctx, GenerateRequest{Prompt: prompt, NQuestions: count})
	monitoring.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return model.Exam{}, asGenerationError(ctx, err)
	}

	if len(exam.Questions) == 0 {
		return model.Exam{}, shapeError("generated exam has no questions")
	}
	if err := exam.Validate(); err != nil {
		return model.Exam{}, &util.GenerationError{Stage: util.StageShape, Err: err}
	}
	if exam.ID == "" {
		exam.ID = model.GenerateUUID()
	}
	return exam, nil
}

// FallbackExam 由 prompt 确定的兜底试卷，同一 prompt 总是得到同一份试卷
func FallbackExam(prompt string) model.Exam {
	topic := strings.TrimSpace(prompt)
	if topic == "" {
		topic = defaultFallbackTopic
	}
	return model.Exam{
		ID:    model.DeterministicID("fallback:" + topic),
		Title: fmt.Sprintf("AI: %s", topic),
		Questions: []model.Question{
			{
				ID:           "1",
				Text:         "How many characters should a password have at minimum?",
				Choices:      []string{"4", "6", "8", "10"},
				CorrectIndex: 2,
			},
			{
				ID:           "2",
				Text:         "What should you never share with strangers?",
				Choices:      []string{"Phone number", "Password", "Both", "Nothing at all"},
				CorrectIndex: 2,
			},
		},
	}
}
