package service

import (
	"context"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"smart_assessment_backend/pkg/logger"
	"smart_assessment_backend/pkg/monitoring"
	"smart_assessment_backend/pkg/tracing"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AssessmentService 按会话 id 驱动一次测评：开始、作答、交卷
type AssessmentService struct {
	source     *QuestionSource
	store      SessionStore
	dispatcher *ResultDispatcher
	bank       *QuestionBankService
}

func NewAssessmentService(source *QuestionSource, store SessionStore, dispatcher *ResultDispatcher, bank *QuestionBankService) *AssessmentService {
	return &AssessmentService{
		source:     source,
		store:      store,
		dispatcher: dispatcher,
		bank:       bank,
	}
}

// GenerateSpec 开始会话时按主题出题
type GenerateSpec struct {
	Prompt     string `json:"prompt"`
	NQuestions int    `json:"nQuestions"`
}

// StartSessionRequest examId、generate、exam 三者必须且只能给出一个
type StartSessionRequest struct {
	ExamID   string        `json:"examId"`
	Generate *GenerateSpec `json:"generate"`
	Exam     *model.Exam   `json:"exam"`
}

// SessionView 返回给学生的会话视图，不含正确答案
type SessionView struct {
	ID           string             `json:"id"`
	State        model.SessionState `json:"state"`
	Origin       string             `json:"origin"`
	Degraded     bool               `json:"degraded"`
	FailureStage string             `json:"failureStage,omitempty"`
	Exam         model.PublicExam   `json:"exam"`
	Answers      map[string]int     `json:"answers"`
	Result       *model.Result      `json:"result,omitempty"`
}

func newSessionView(session *ExamSession) SessionView {
	snap := session.Snapshot()
	return SessionView{
		ID:       snap.ID,
		State:    snap.State,
		Origin:   snap.Origin,
		Degraded: snap.Origin == string(OriginFallback),
		Exam:     snap.Exam.Public(),
		Answers:  snap.Answers,
		Result:   snap.Result,
	}
}

func (r StartSessionRequest) validate() error {
	n := 0
	if strings.TrimSpace(r.ExamID) != "" {
		n++
	}
	if r.Generate != nil {
		n++
	}
	if r.Exam != nil {
		n++
	}
	if n != 1 {
		return util.NewValidationError("request", "exactly one of examId, generate or exam is required, got %d", n)
	}
	return nil
}

// resolveExam 按请求取得试卷；出题失败不会返回错误，而是得到兜底试卷
func (s *AssessmentService) resolveExam(ctx context.Context, req StartSessionRequest) (model.Exam, Origin, *util.GenerationError, error) {
	switch {
	case strings.TrimSpace(req.ExamID) != "":
		exam, err := s.source.FindExam(strings.TrimSpace(req.ExamID))
		if err != nil {
			return model.Exam{}, "", nil, err
		}
		return exam, OriginCatalog, nil, nil

	case req.Generate != nil:
		outcome := s.source.Generate(ctx, req.Generate.Prompt, req.Generate.NQuestions)
		if outcome.Origin == OriginLive && s.bank != nil {
			if err := s.bank.StoreGenerated(outcome.Exam); err != nil {
				logger.Log.Warn("Failed to store generated questions", zap.Error(err))
			}
		}
		return outcome.Exam, outcome.Origin, outcome.Err, nil

	default:
		exam := *req.Exam
		if len(exam.Questions) > 0 {
			if err := exam.Validate(); err != nil {
				return model.Exam{}, "", nil, err
			}
		}
		if exam.ID == "" {
			exam.ID = model.GenerateUUID()
		}
		return exam, OriginInline, nil, nil
	}
}

// StartSession 创建新会话并载入试卷
func (s *AssessmentService) StartSession(ctx context.Context, req StartSessionRequest) (SessionView, error) {
	if err := req.validate(); err != nil {
		return SessionView{}, err
	}

	ctx, span := tracing.Tracer.Start(ctx, "AssessmentService.StartSession")
	defer span.End()

	exam, origin, genErr, err := s.resolveExam(ctx, req)
	if err != nil {
		return SessionView{}, err
	}

	session := NewExamSession(model.GenerateUUID())
	session.Start(exam)
	session.SetOrigin(string(origin))
	span.SetAttributes(
		attribute.String("session.id", session.ID()),
		attribute.String("exam.origin", string(origin)),
	)

	if err := s.store.Save(ctx, session.Snapshot()); err != nil {
		return SessionView{}, err
	}

	view := newSessionView(session)
	if genErr != nil {
		view.FailureStage = genErr.Stage
	}
	return view, nil
}

func (s *AssessmentService) load(ctx context.Context, sessionID string) (*ExamSession, error) {
	snap, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return RestoreSession(snap), nil
}

func (s *AssessmentService) GetSession(ctx context.Context, sessionID string) (SessionView, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return newSessionView(session), nil
}

// Choose 记录一次选择；校验失败时会话保持不变
func (s *AssessmentService) Choose(ctx context.Context, sessionID, questionID string, choiceIndex int) (SessionView, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.Choose(questionID, choiceIndex); err != nil {
		return SessionView{}, err
	}
	if err := s.store.Save(ctx, session.Snapshot()); err != nil {
		return SessionView{}, err
	}
	return newSessionView(session), nil
}

// Submit 交卷评分；成绩异步上报，上报结果不影响返回值
func (s *AssessmentService) Submit(ctx context.Context, sessionID string) (model.Result, error) {
	ctx, span := tracing.Tracer.Start(ctx, "AssessmentService.Submit")
	defer span.End()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return model.Result{}, err
	}

	result, err := session.Submit()
	if err != nil {
		return model.Result{}, err
	}
	// 并发交卷时只有抢到标记的一方保存并上报
	claimed, err := s.store.ClaimSubmit(ctx, sessionID)
	if err != nil {
		return model.Result{}, err
	}
	if !claimed {
		return model.Result{}, util.ErrSessionSubmitted
	}
	if err := s.store.Save(ctx, session.Snapshot()); err != nil {
		return model.Result{}, err
	}

	monitoring.SubmissionTotal.WithLabelValues(string(result.Level)).Inc()
	span.SetAttributes(
		attribute.Int("result.score", result.Score),
		attribute.String("result.level", string(result.Level)),
	)

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, session.Exam().Title, result)
	}
	return result, nil
}
