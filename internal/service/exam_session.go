package service

import (
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"time"
)

// DefaultExam 在传入的试卷没有题目时替代使用
func DefaultExam() model.Exam {
	return model.Exam{
		ID:    "default",
		Title: "Quick sample exam",
		Questions: []model.Question{
			{
				ID:           "1",
				Text:         "What does HTML stand for?",
				Choices:      []string{"HyperText Markup Language", "Home Tool Markup", "Hyperlink Text Markup", "None"},
				CorrectIndex: 0,
			},
			{
				ID:           "2",
				Text:         "What is CSS used for?",
				Choices:      []string{"Structuring content", "Styling the interface", "Storing data", "Sending email"},
				CorrectIndex: 1,
			},
		},
	}
}

// ExamSession 保存一份试卷和学生的作答，单个所有者使用，不做并发保护
type ExamSession struct {
	id        string
	exam      model.Exam
	answers   map[string]int
	state     model.SessionState
	result    *model.Result
	origin    string
	startedAt time.Time
	updatedAt time.Time
}

func NewExamSession(id string) *ExamSession {
	return &ExamSession{
		id:      id,
		answers: make(map[string]int),
		state:   model.SessionEmpty,
	}
}

func (s *ExamSession) ID() string                { return s.id }
func (s *ExamSession) State() model.SessionState { return s.state }
func (s *ExamSession) Exam() model.Exam          { return s.exam }

// Answers 返回作答的副本
func (s *ExamSession) Answers() map[string]int {
	out := make(map[string]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Start 载入试卷并清空作答；题目为空时使用默认试卷
func (s *ExamSession) Start(exam model.Exam) {
	if len(exam.Questions) == 0 {
		exam = DefaultExam()
	}
	now := time.Now().UTC()
	s.exam = exam
	s.answers = make(map[string]int)
	s.result = nil
	s.state = model.SessionLoaded
	s.startedAt = now
	s.updatedAt = now
}

// Choose 记录某题的选项，后一次覆盖前一次；校验失败时不修改任何作答
func (s *ExamSession) Choose(questionID string, choiceIndex int) error {
	switch s.state {
	case model.SessionEmpty:
		return util.ErrSessionNotStarted
	case model.SessionSubmitted:
		return util.ErrSessionSubmitted
	}

	q, ok := s.exam.FindQuestion(questionID)
	if !ok {
		return util.NewValidationError("questionId", "question %q is not part of exam %q", questionID, s.exam.ID)
	}
	if choiceIndex < 0 || choiceIndex >= len(q.Choices) {
		return util.NewValidationError("choiceIndex", "%d out of range [0,%d] for question %q", choiceIndex, len(q.Choices)-1, questionID)
	}

	s.answers[questionID] = choiceIndex
	s.state = model.SessionAnswering
	s.updatedAt = time.Now().UTC()
	return nil
}

// Submit 计算成绩并把会话置为终态；未作答的题按错误计
func (s *ExamSession) Submit() (model.Result, error) {
	switch s.state {
	case model.SessionEmpty:
		return model.Result{}, util.ErrSessionNotStarted
	case model.SessionSubmitted:
		return model.Result{}, util.ErrSessionSubmitted
	}

	correct := 0
	for _, q := range s.exam.Questions {
		if idx, ok := s.answers[q.ID]; ok && idx == q.CorrectIndex {
			correct++
		}
	}

	result := Score(len(s.exam.Questions), correct)
	s.result = &result
	s.state = model.SessionSubmitted
	s.updatedAt = time.Now().UTC()
	return result, nil
}

// Result 仅在 Submitted 状态下有值
func (s *ExamSession) Result() (model.Result, bool) {
	if s.result == nil {
		return model.Result{}, false
	}
	return *s.result, true
}

func (s *ExamSession) Snapshot() model.SessionSnapshot {
	snap := model.SessionSnapshot{
		ID:        s.id,
		Exam:      s.exam,
		Answers:   s.Answers(),
		State:     s.state,
		Origin:    s.origin,
		StartedAt: s.startedAt,
		UpdatedAt: s.updatedAt,
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

// RestoreSession 从快照恢复会话
func RestoreSession(snap model.SessionSnapshot) *ExamSession {
	s := &ExamSession{
		id:        snap.ID,
		exam:      snap.Exam,
		answers:   make(map[string]int, len(snap.Answers)),
		state:     snap.State,
		origin:    snap.Origin,
		startedAt: snap.StartedAt,
		updatedAt: snap.UpdatedAt,
	}
	for k, v := range snap.Answers {
		s.answers[k] = v
	}
	if s.state == "" {
		s.state = model.SessionEmpty
	}
	if snap.Result != nil {
		r := *snap.Result
		s.result = &r
	}
	return s
}

// SetOrigin 记录试卷来源（catalog / live / fallback / inline）
func (s *ExamSession) SetOrigin(origin string) {
	s.origin = origin
}
