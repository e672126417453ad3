package model

import (
	"smart_assessment_backend/internal/util"
	"strings"
)

// Exam 一套试卷，生成之后不再修改
type Exam struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question 单选题，CorrectIndex 从 0 开始
type Question struct {
	ID           string   `json:"id" yaml:"id"`
	Text         string   `json:"text" yaml:"text"`
	Choices      []string `json:"choices" yaml:"choices"`
	CorrectIndex int      `json:"correctIndex" yaml:"answer"`
}

// Validate 检查试卷是否满足结构约束；空题目列表是允许的
func (e Exam) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return util.NewValidationError("title", "must not be empty")
	}

	seen := make(map[string]struct{}, len(e.Questions))
	for i, q := range e.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, dup := seen[q.ID]; dup {
			return util.NewValidationError("questions", "duplicate question id %q at position %d", q.ID, i)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return util.NewValidationError("question.id", "must not be empty")
	}
	if strings.TrimSpace(q.Text) == "" {
		return util.NewValidationError("question.text", "question %q has no text", q.ID)
	}
	if len(q.Choices) < 2 {
		return util.NewValidationError("question.choices", "question %q needs at least 2 choices, got %d", q.ID, len(q.Choices))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return util.NewValidationError("question.answer", "question %q answer %d out of range [0,%d]", q.ID, q.CorrectIndex, len(q.Choices)-1)
	}
	return nil
}

// FindQuestion 按 id 查找题目
func (e Exam) FindQuestion(id string) (Question, bool) {
	for _, q := range e.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// PublicQuestion 学生端可见的题目，不含正确答案
type PublicQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

type PublicExam struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	QuestionCount int              `json:"questionCount"`
	Questions     []PublicQuestion `json:"questions"`
}

func (e Exam) Public() PublicExam {
	qs := make([]PublicQuestion, len(e.Questions))
	for i, q := range e.Questions {
		qs[i] = PublicQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Choices: append([]string(nil), q.Choices...),
		}
	}
	return PublicExam{
		ID:            e.ID,
		Title:         e.Title,
		QuestionCount: len(qs),
		Questions:     qs,
	}
}
