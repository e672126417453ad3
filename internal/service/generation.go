package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"strings"
)

// GenerateRequest 出题请求，对应远程接口的 {prompt, n_questions}
type GenerateRequest struct {
	Prompt     string `json:"prompt" binding:"required"`
	NQuestions int    `json:"n_questions"`
	Difficulty string `json:"difficulty,omitempty"`
}

// ExamGenerator 远程或进程内的出题实现
type ExamGenerator interface {
	GenerateExam(ctx context.Context, req GenerateRequest) (model.Exam, error)
}

// GeneratedQuestion 出题接口的题目格式，answer 为正确选项下标
type GeneratedQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Answer  int      `json:"answer"`
}

type GeneratedExam struct {
	Title     string              `json:"title"`
	Questions []GeneratedQuestion `json:"questions"`
}

func ToGeneratedExam(exam model.Exam) GeneratedExam {
	out := GeneratedExam{
		Title:     exam.Title,
		Questions: make([]GeneratedQuestion, len(exam.Questions)),
	}
	for i, q := range exam.Questions {
		out.Questions[i] = GeneratedQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Choices: q.Choices,
			Answer:  q.CorrectIndex,
		}
	}
	return out
}

// wireQuestion 用指针区分字段缺失和零值
type wireQuestion struct {
	ID      json.RawMessage `json:"id"`
	Text    *string         `json:"text"`
	Choices []string        `json:"choices"`
	Answer  *int            `json:"answer"`
}

type wireExam struct {
	Title     *string        `json:"title"`
	Questions []wireQuestion `json:"questions"`
}

type decodeOptions struct {
	// 缺少 id 时补一个 uuid，否则视为格式错误
	fillMissingIDs bool
	// title 为空时使用该值，为空则视为格式错误
	defaultTitle string
}

// decodeGeneratedExam 严格解析出题结果，任何偏离约定格式的情况都返回 GenerationError
func decodeGeneratedExam(data []byte, opts decodeOptions) (model.Exam, error) {
	var payload wireExam
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Exam{}, &util.GenerationError{Stage: util.StageDecode, Err: err}
	}

	title := ""
	if payload.Title != nil {
		title = strings.TrimSpace(*payload.Title)
	}
	if title == "" {
		if opts.defaultTitle == "" {
			return model.Exam{}, shapeError("missing title")
		}
		title = opts.defaultTitle
	}

	if len(payload.Questions) == 0 {
		return model.Exam{}, shapeError("missing questions list")
	}

	exam := model.Exam{
		Title:     title,
		Questions: make([]model.Question, 0, len(payload.Questions)),
	}
	for i, wq := range payload.Questions {
		id, err := parseQuestionID(wq.ID)
		if err != nil {
			return model.Exam{}, shapeError("question %d: %v", i, err)
		}
		if id == "" {
			if !opts.fillMissingIDs {
				return model.Exam{}, shapeError("question %d has no id", i)
			}
			id = model.GenerateUUID()
		}
		if wq.Text == nil {
			return model.Exam{}, shapeError("question %d has no text", i)
		}
		if wq.Choices == nil {
			return model.Exam{}, shapeError("question %d has no choices", i)
		}
		if wq.Answer == nil {
			return model.Exam{}, shapeError("question %d has no answer", i)
		}
		exam.Questions = append(exam.Questions, model.Question{
			ID:           id,
			Text:         *wq.Text,
			Choices:      wq.Choices,
			CorrectIndex: *wq.Answer,
		})
	}

	if err := exam.Validate(); err != nil {
		return model.Exam{}, &util.GenerationError{Stage: util.StageShape, Err: err}
	}
	return exam, nil
}

// parseQuestionID 接受字符串或整数 id
func parseQuestionID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("id must be a string or number")
	}
	if _, err := n.Int64(); err != nil {
		return "", fmt.Errorf("id must be an integer, got %s", n)
	}
	return n.String(), nil
}

func shapeError(format string, args ...interface{}) error {
	return &util.GenerationError{Stage: util.StageShape, Err: fmt.Errorf(format, args...)}
}

// asGenerationError 把任意错误归类为 GenerationError
func asGenerationError(ctx context.Context, err error) *util.GenerationError {
	var ge *util.GenerationError
	if errors.As(err, &ge) {
		return ge
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &util.GenerationError{Stage: util.StageTimeout, Err: err}
	}
	return &util.GenerationError{Stage: util.StageTransport, Err: err}
}

// clampQuestionCount 未指定（<=0）时取默认值，超过上限时截断
func clampQuestionCount(n int) int {
	if n < util.MinQuestionCount {
		return util.DefaultQuestionCount
	}
	if n > util.MaxQuestionCount {
		return util.MaxQuestionCount
	}
	return n
}
