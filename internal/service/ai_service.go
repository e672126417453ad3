package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"smart_assessment_backend/internal/config"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"smart_assessment_backend/pkg/logger"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// 模型输出中第一个 { 到最后一个 } 之间的内容
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// AIService 调用 OpenAI 兼容的 /chat/completions 接口出题
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig, client *http.Client) *AIService {
	if client == nil {
		client = &http.Client{}
	}
	return &AIService{config: cfg, client: client}
}

// UpdateConfig 配置热加载时替换模型参数
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *AIService) currentConfig() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const generationSystemPrompt = "You write multiple-choice questions for lower and upper secondary school students. " +
	"Return ONLY one JSON object with the structure " +
	`{ "title": string, "questions": [ {"id": string, "text": string, "choices": [string], "answer": int} ] }. ` +
	"Do not include any explanation or other text. Every question has 4 choices. " +
	"answer is the zero-based index of the correct choice."

// GenerateExam 未配置 API Key 时返回示例题目
func (s *AIService) GenerateExam(ctx context.Context, req GenerateRequest) (model.Exam, error) {
	cfg := s.currentConfig()
	n := clampQuestionCount(req.NQuestions)
	prompt := strings.TrimSpace(req.Prompt)

	if cfg.APIKey == "" {
		return demoExam(prompt, n), nil
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	userPrompt := fmt.Sprintf("Create %d multiple-choice questions with 4 choices about: %s. Language: %s. Difficulty: %s.",
		n, prompt, cfg.Language, difficulty)

	text, err := s.complete(ctx, cfg, []AIChatMessage{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return model.Exam{}, err
	}

	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		logger.Log.Error("No JSON found in AI response", zap.String("raw", text))
		return model.Exam{}, &util.GenerationError{Stage: util.StageDecode, Err: fmt.Errorf("no JSON object in model output")}
	}

	exam, err := decodeGeneratedExam([]byte(raw), decodeOptions{
		fillMissingIDs: true,
		defaultTitle:   "AI: " + prompt,
	})
	if err != nil {
		logger.Log.Error("Failed to parse JSON from AI", zap.Error(err))
		return model.Exam{}, err
	}
	exam.ID = model.GenerateUUID()
	return exam, nil
}

func (s *AIService) complete(ctx context.Context, cfg config.AIConfig, messages []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", util.MimeJSON)
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", asGenerationError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGenerationResponseBytes))
	if err != nil {
		return "", asGenerationError(ctx, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &util.GenerationError{
			Stage: util.StageStatus,
			Err:   fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &util.GenerationError{Stage: util.StageDecode, Err: err}
	}
	if result.Error != nil {
		return "", &util.GenerationError{Stage: util.StageStatus, Err: fmt.Errorf("AI API error: %s", result.Error.Message)}
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", &util.GenerationError{Stage: util.StageShape, Err: fmt.Errorf("AI returned no choices")}
}

// demoExam 没有模型可用时的示例题目
func demoExam(prompt string, n int) model.Exam {
	exam := model.Exam{
		ID:        model.GenerateUUID(),
		Title:     "AI: " + prompt,
		Questions: make([]model.Question, 0, n),
	}
	for i := 0; i < n; i++ {
		exam.Questions = append(exam.Questions, model.Question{
			ID:           model.GenerateUUID(),
			Text:         fmt.Sprintf("Sample AI question #%d: about %s", i+1, prompt),
			Choices:      []string{"A", "B", "C", "D"},
			CorrectIndex: 0,
		})
	}
	return exam
}
