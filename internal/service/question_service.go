package service

import (
	"encoding/json"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/repository"
	"strings"
)

// QuestionBankService 题库，保存手工录入和 AI 生成的题目
type QuestionBankService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionBankService(repo *repository.QuestionRepository) *QuestionBankService {
	return &QuestionBankService{Repo: repo}
}

type SaveQuestionRequest struct {
	ID      string   `json:"id"`
	Text    string   `json:"text" binding:"required"`
	Choices []string `json:"choices" binding:"required"`
	Answer  int      `json:"answer"`
}

func toStoredQuestion(q model.Question, origin string) (model.StoredQuestion, error) {
	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return model.StoredQuestion{}, err
	}
	return model.StoredQuestion{
		QuestionID: q.ID,
		Text:       q.Text,
		Choices:    choices,
		Answer:     q.CorrectIndex,
		Origin:     origin,
	}, nil
}

// Save 新增或按 id 覆盖一道题；id 为空时自动生成
func (s *QuestionBankService) Save(req SaveQuestionRequest) (*model.StoredQuestion, error) {
	q := model.Question{
		ID:           strings.TrimSpace(req.ID),
		Text:         strings.TrimSpace(req.Text),
		Choices:      req.Choices,
		CorrectIndex: req.Answer,
	}
	if q.ID == "" {
		q.ID = model.GenerateUUID()
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	stored, err := toStoredQuestion(q, model.QuestionOriginManual)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Upsert(&stored); err != nil {
		return nil, err
	}
	return s.Repo.FindByQuestionID(q.ID)
}

// StoreGenerated 把生成的整套题写入题库
func (s *QuestionBankService) StoreGenerated(exam model.Exam) error {
	qs := make([]model.StoredQuestion, 0, len(exam.Questions))
	for _, q := range exam.Questions {
		stored, err := toStoredQuestion(q, model.QuestionOriginGenerated)
		if err != nil {
			return err
		}
		qs = append(qs, stored)
	}
	return s.Repo.UpsertBatch(qs)
}

func (s *QuestionBankService) List(page, limit int) ([]model.StoredQuestion, int64, error) {
	return s.Repo.List(page, limit)
}
