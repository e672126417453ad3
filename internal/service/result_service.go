package service

import (
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/repository"
	"smart_assessment_backend/internal/util"
	"strings"
)

// 成绩来源
const (
	ResultSourceSession = "session"
	ResultSourceAPI     = "api"
)

type ResultService struct {
	Repo      *repository.ResultRepository
	Dashboard *repository.DashboardRepository
}

func NewResultService(repo *repository.ResultRepository, dashboard *repository.DashboardRepository) *ResultService {
	return &ResultService{Repo: repo, Dashboard: dashboard}
}

// ReportedScore 外部上报的成绩，level 可省略
type ReportedScore struct {
	Score   int         `json:"score"`
	Total   int         `json:"total"`
	Correct int         `json:"correct"`
	Level   model.Level `json:"level,omitempty"`
}

type SaveResultRequest struct {
	ExamTitle string        `json:"exam_title" binding:"required"`
	Result    ReportedScore `json:"result"`
	StudentID string        `json:"student_id"`
}

// validate 成绩必须与 Score(total, correct) 一致，level 省略时按分数补齐
func (r ReportedScore) validate() (model.Result, error) {
	if r.Total < 0 {
		return model.Result{}, util.NewValidationError("result.total", "must not be negative, got %d", r.Total)
	}
	if r.Correct < 0 || r.Correct > r.Total {
		return model.Result{}, util.NewValidationError("result.correct", "must be within [0,%d], got %d", r.Total, r.Correct)
	}
	if r.Score < 0 || r.Score > 100 {
		return model.Result{}, util.NewValidationError("result.score", "must be within [0,100], got %d", r.Score)
	}
	switch r.Level {
	case "", model.LevelGood, model.LevelAverage, model.LevelNeedsImprovement:
	default:
		return model.Result{}, util.NewValidationError("result.level", "unknown level %q", r.Level)
	}

	want := Score(r.Total, r.Correct)
	if r.Score != want.Score {
		return model.Result{}, util.NewValidationError("result.score", "%d does not match %d/%d (want %d)", r.Score, r.Correct, r.Total, want.Score)
	}
	if r.Level != "" && r.Level != want.Level {
		return model.Result{}, util.NewValidationError("result.level", "%s does not match score %d (want %s)", r.Level, want.Score, want.Level)
	}
	return want, nil
}

// SaveResult 校验并保存一条外部上报的成绩，返回记录 id
func (s *ResultService) SaveResult(req SaveResultRequest) (string, error) {
	title := strings.TrimSpace(req.ExamTitle)
	if title == "" {
		return "", util.NewValidationError("exam_title", "must not be blank")
	}
	result, err := req.Result.validate()
	if err != nil {
		return "", err
	}

	record := &model.StoredResult{
		ExamTitle: title,
		Score:     result.Score,
		Correct:   result.Correct,
		Total:     result.Total,
		Level:     result.Level,
		StudentID: strings.TrimSpace(req.StudentID),
		Source:    ResultSourceAPI,
	}
	if err := s.Repo.Create(record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (s *ResultService) GetResult(id string) (*model.StoredResult, error) {
	return s.Repo.FindByID(id)
}

func (s *ResultService) ListResults(page, limit int, examTitle string) ([]model.StoredResult, int64, error) {
	return s.Repo.List(page, limit, examTitle)
}

func (s *ResultService) Summary(examTitle string) (*repository.ResultSummary, error) {
	return s.Dashboard.Summary(examTitle)
}
